package hsk

import (
	"encoding/json"
	"fmt"
	"os"
)

// VocabIndex maps words to their HSK level per the 2021/2025 standard.
// Levels 1-6 are the graded bands; 7 stands for the advanced 7-9 band.
type VocabIndex struct {
	words map[string]int
}

// NewVocabIndex builds an index from a word->level map.
func NewVocabIndex(words map[string]int) *VocabIndex {
	if words == nil {
		words = map[string]int{}
	}
	return &VocabIndex{words: words}
}

// LoadVocabIndex reads a JSON object of word->level from path.
func LoadVocabIndex(path string) (*VocabIndex, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary file: %w", err)
	}
	var words map[string]int
	if err := json.Unmarshal(raw, &words); err != nil {
		return nil, fmt.Errorf("parse vocabulary file: %w", err)
	}
	return NewVocabIndex(words), nil
}

// WordLevel returns the HSK level for a word, or 0 if the word is not listed.
func (v *VocabIndex) WordLevel(word string) int {
	return v.words[word]
}

// Len returns the number of indexed words.
func (v *VocabIndex) Len() int {
	return len(v.words)
}

// VocabProfile counts words per level band.
type VocabProfile struct {
	Levels   [6]int `json:"levels"`
	Advanced int    `json:"advanced"`
	Unknown  int    `json:"unknown"`
}

// Profile categorizes words by HSK level band.
func (v *VocabIndex) Profile(words []string) VocabProfile {
	var p VocabProfile
	for _, w := range words {
		switch level := v.WordLevel(w); {
		case level >= 1 && level <= 6:
			p.Levels[level-1]++
		case level >= 7:
			p.Advanced++
		default:
			p.Unknown++
		}
	}
	return p
}

// OverLimitWords returns listed words whose level exceeds targetLevel.
func (v *VocabIndex) OverLimitWords(words []string, targetLevel int) []string {
	var over []string
	for _, w := range words {
		if level := v.WordLevel(w); level > targetLevel {
			over = append(over, w)
		}
	}
	return over
}
