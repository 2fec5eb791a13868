package models

import "time"

// Flashcard is one vocabulary card owned by a user. State carries the
// serialized scheduler memory model; Due mirrors its due date for indexing.
type Flashcard struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Word      string    `json:"word"`
	Pinyin    string    `json:"pinyin,omitempty"`
	Meaning   string    `json:"meaning,omitempty"`
	HSKLevel  int       `json:"hskLevel"`
	State     []byte    `json:"-"`
	Due       time.Time `json:"due"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReviewOutcome reports the next schedule after a review is graded.
type ReviewOutcome struct {
	CardID        string    `json:"cardId"`
	Due           time.Time `json:"due"`
	ScheduledDays int       `json:"scheduledDays"`
}
