package models

import "time"

// User is an account row.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name,omitempty"`
	PasswordHash string    `json:"-"`
	Plan         Plan      `json:"plan"`
	TargetLevel  int       `json:"targetLevel"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// DailyUsage is the user's consumption against the daily analysis ceiling.
// Limit is nil for plans that expose no ceiling to the client.
type DailyUsage struct {
	Usage   int  `json:"usage"`
	Limit   *int `json:"limit"`
	Allowed bool `json:"allowed"`
	Plan    Plan `json:"plan"`
}

// CognitiveProfile summarizes a learner's recurring strengths and weaknesses.
type CognitiveProfile struct {
	UserID        string        `json:"userId"`
	WeakPatterns  []WeakPattern `json:"weakPatterns"`
	AnalysisCount int           `json:"analysisCount"`
	AverageScore  float64       `json:"averageScore"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// ErrorLogEntry is one persisted writing error, kept for profile aggregation.
type ErrorLogEntry struct {
	ID         string        `json:"id"`
	UserID     string        `json:"userId"`
	AnalysisID string        `json:"analysisId"`
	Category   ErrorCategory `json:"category"`
	Severity   Severity      `json:"severity"`
	Pattern    string        `json:"pattern"`
	CreatedAt  time.Time     `json:"createdAt"`
}
