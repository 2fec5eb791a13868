package timeutil

import (
	"testing"
	"time"
)

func TestDayKeyUsesUTCDate(t *testing.T) {
	loc := time.FixedZone("ICT", 7*3600)
	// 02:30 on the 5th in Bangkok is still the 4th in UTC.
	ts := time.Date(2025, time.June, 5, 2, 30, 0, 0, loc)
	if got := DayKey(ts); got != "2025-06-04" {
		t.Fatalf("expected 2025-06-04, got %s", got)
	}
}

func TestSameUTCDay(t *testing.T) {
	a := time.Date(2025, time.June, 4, 23, 59, 0, 0, time.UTC)
	b := time.Date(2025, time.June, 5, 0, 1, 0, 0, time.UTC)
	if SameUTCDay(a, b) {
		t.Fatal("expected different UTC days across midnight")
	}
	if !SameUTCDay(a, a.Add(-time.Hour)) {
		t.Fatal("expected same UTC day within the date")
	}
}

func TestNextUTCMidnight(t *testing.T) {
	ts := time.Date(2025, time.June, 4, 15, 0, 0, 0, time.UTC)
	want := time.Date(2025, time.June, 5, 0, 0, 0, 0, time.UTC)
	if got := NextUTCMidnight(ts); !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
