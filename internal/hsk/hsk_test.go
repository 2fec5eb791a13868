package hsk

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateEssayRejectsLowLevels(t *testing.T) {
	for _, level := range []int{1, 2} {
		if _, err := ValidateEssay("我喜欢学中文", level); !errors.Is(err, ErrNoWritingAtThis) {
			t.Fatalf("level %d: expected ErrNoWritingAtThis, got %v", level, err)
		}
	}
}

func TestValidateEssayTrimsAndAccepts(t *testing.T) {
	got, err := ValidateEssay("  我每天都学习汉语。  ", 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "我每天都学习汉语。" {
		t.Fatalf("expected trimmed text, got %q", got)
	}
}

func TestValidateEssayCountsRunesNotBytes(t *testing.T) {
	// 5000 Chinese characters is 15000 bytes but still within limit.
	text := strings.Repeat("学", 5000)
	if _, err := ValidateEssay(text, 5); err != nil {
		t.Fatalf("5000 runes should be accepted, got %v", err)
	}
	if _, err := ValidateEssay(text+"习", 5); !errors.Is(err, ErrEssayTooLong) {
		t.Fatalf("5001 runes should be rejected, got %v", err)
	}
}

func TestValidatePassageRejectsEmpty(t *testing.T) {
	if _, err := ValidatePassage("   ", 3); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText, got %v", err)
	}
}

func TestVocabProfile(t *testing.T) {
	idx := NewVocabIndex(map[string]int{
		"你好": 1,
		"环境": 4,
		"亟待": 7,
	})

	p := idx.Profile([]string{"你好", "环境", "亟待", "不存在"})
	if p.Levels[0] != 1 || p.Levels[3] != 1 {
		t.Fatalf("unexpected level counts: %+v", p)
	}
	if p.Advanced != 1 {
		t.Fatalf("expected 1 advanced word, got %d", p.Advanced)
	}
	if p.Unknown != 1 {
		t.Fatalf("expected 1 unknown word, got %d", p.Unknown)
	}
}

func TestOverLimitWords(t *testing.T) {
	idx := NewVocabIndex(map[string]int{
		"你好": 1,
		"致力": 6,
	})
	over := idx.OverLimitWords([]string{"你好", "致力", "没有"}, 4)
	if len(over) != 1 || over[0] != "致力" {
		t.Fatalf("expected [致力], got %v", over)
	}
}
