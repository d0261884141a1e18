// Package pacing converts a words-per-minute rate into display delays.
package pacing

import (
	"errors"
	"time"
)

var (
	// ErrInvalidRate is returned for a words-per-minute rate of zero or less.
	ErrInvalidRate = errors.New("words per minute must be greater than 0")

	// ErrInvalidWordCount is returned for a negative unit word count.
	ErrInvalidWordCount = errors.New("word count must not be negative")
)

// PerWord returns how long a single word is shown at the given rate. The
// millisecond figure is floored before any multiplication so that unit
// delays are exact multiples of it.
func PerWord(wpm int) (time.Duration, error) {
	if wpm <= 0 {
		return 0, ErrInvalidRate
	}
	// 1000 / (wpm / 60), kept in integers so exact divisors never round down.
	ms := int64(60_000) / int64(wpm)
	return time.Duration(ms) * time.Millisecond, nil
}

// Delay returns how long a unit of the given word count is shown.
func Delay(wpm, words int) (time.Duration, error) {
	if words < 0 {
		return 0, ErrInvalidWordCount
	}
	perWord, err := PerWord(wpm)
	if err != nil {
		return 0, err
	}
	return perWord * time.Duration(words), nil
}

// Estimate returns the total display time of a unit sequence, using count
// to measure each unit.
func Estimate(wpm int, units []string, count func(string) int) (time.Duration, error) {
	perWord, err := PerWord(wpm)
	if err != nil {
		return 0, err
	}
	var total time.Duration
	for _, u := range units {
		total += perWord * time.Duration(count(u))
	}
	return total, nil
}
