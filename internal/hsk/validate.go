package hsk

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const (
	maxEssayChars   = 5000
	maxPassageChars = 10000
)

var (
	ErrEmptyText       = errors.New("กรุณาพิมพ์ข้อความ")
	ErrEssayTooLong    = errors.New("ข้อความยาวเกินไป (สูงสุด 5000 ตัวอักษร)")
	ErrPassageTooLong  = errors.New("ข้อความยาวเกินไป (สูงสุด 10000 ตัวอักษร)")
	ErrInvalidLevel    = errors.New("ระดับ HSK ต้องเป็น 1–6")
	ErrNoWritingAtThis = errors.New("ระดับ HSK สำหรับการเขียนต้องเป็น 3–6")
)

// ValidateEssay checks writing-mode input and returns the trimmed text.
// Length limits are in runes because submissions are Chinese characters.
func ValidateEssay(text string, level int) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", ErrEmptyText
	}
	if utf8.RuneCountInString(trimmed) > maxEssayChars {
		return "", ErrEssayTooLong
	}
	if !ValidLevel(level) {
		return "", ErrInvalidLevel
	}
	if !WritingLevel(level) {
		return "", ErrNoWritingAtThis
	}
	return trimmed, nil
}

// ValidatePassage checks reading-mode input and returns the trimmed text.
func ValidatePassage(passage string, level int) (string, error) {
	trimmed := strings.TrimSpace(passage)
	if trimmed == "" {
		return "", ErrEmptyText
	}
	if utf8.RuneCountInString(trimmed) > maxPassageChars {
		return "", ErrPassageTooLong
	}
	if !ValidLevel(level) {
		return "", ErrInvalidLevel
	}
	return trimmed, nil
}
