package hsk

import "fmt"

// LevelConfig describes what an HSK level offers and how it is scored.
type LevelConfig struct {
	TotalVocab         int
	HasWriting         bool
	HasReading         bool
	MinChars           int
	PassingScore       int
	TotalScore         int
	WritingDescription string
}

// levelConfigs follows the official exam structure: HSK 1-2 have no writing
// section, HSK 3+ require progressively longer essays.
var levelConfigs = map[int]LevelConfig{
	1: {TotalVocab: 150, HasWriting: false, HasReading: true, MinChars: 0, PassingScore: 120, TotalScore: 200, WritingDescription: "ยังไม่มีส่วน Writing"},
	2: {TotalVocab: 300, HasWriting: false, HasReading: true, MinChars: 0, PassingScore: 120, TotalScore: 200, WritingDescription: "ยังไม่มีส่วน Writing"},
	3: {TotalVocab: 600, HasWriting: true, HasReading: true, MinChars: 50, PassingScore: 180, TotalScore: 300, WritingDescription: "เขียนประโยคสั้นๆ"},
	4: {TotalVocab: 1200, HasWriting: true, HasReading: true, MinChars: 100, PassingScore: 180, TotalScore: 300, WritingDescription: "เรียงคำให้เป็นประโยค + เขียนประโยค"},
	5: {TotalVocab: 2500, HasWriting: true, HasReading: true, MinChars: 200, PassingScore: 180, TotalScore: 300, WritingDescription: "เรียงประโยค + เขียนเรียงความ"},
	6: {TotalVocab: 5000, HasWriting: true, HasReading: true, MinChars: 400, PassingScore: 180, TotalScore: 300, WritingDescription: "สรุปบทความ (缩写) ห้ามใช้คำจากต้นฉบับ"},
}

// Level returns the config for an HSK level 1-6.
func Level(level int) (LevelConfig, error) {
	cfg, ok := levelConfigs[level]
	if !ok {
		return LevelConfig{}, fmt.Errorf("hsk: unknown level %d", level)
	}
	return cfg, nil
}

// ValidLevel reports whether level is within 1-6.
func ValidLevel(level int) bool {
	_, ok := levelConfigs[level]
	return ok
}

// WritingLevel reports whether level has a writing section (3-6).
func WritingLevel(level int) bool {
	cfg, ok := levelConfigs[level]
	return ok && cfg.HasWriting
}

// LevelName formats a level as the conventional label, e.g. "HSK5".
func LevelName(level int) string {
	return fmt.Sprintf("HSK%d", level)
}
