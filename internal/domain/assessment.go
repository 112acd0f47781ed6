package domain

import (
	"fmt"
	"time"
)

// TimestampLayout is the textual form of AssessmentRecord.Timestamp in storage
// and exports. It is fixed width, so lexical order equals chronological order.
const TimestampLayout = "2006-01-02 15:04:05.000000"

const (
	MinScore = 0
	MaxScore = 100
)

// Scores are the four self-reported skill levels of an assessment.
type Scores struct {
	Logical       int `json:"logical"`
	Coding        int `json:"coding"`
	Communication int `json:"communication"`
	Creativity    int `json:"creativity"`
}

// Vector returns the scores in training-feature order.
func (s Scores) Vector() [4]int {
	return [4]int{s.Logical, s.Coding, s.Communication, s.Creativity}
}

// Validate reports the first score that falls outside [MinScore, MaxScore].
func (s Scores) Validate() error {
	fields := []struct {
		name  string
		value int
	}{
		{"logical", s.Logical},
		{"coding", s.Coding},
		{"communication", s.Communication},
		{"creativity", s.Creativity},
	}
	for _, f := range fields {
		if f.value < MinScore || f.value > MaxScore {
			return &ValidationError{Field: f.name, Value: f.value}
		}
	}
	return nil
}

// ValidationError is returned when a score is out of range.
type ValidationError struct {
	Field string
	Value int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s must be between %d and %d, got %d", e.Field, MinScore, MaxScore, e.Value)
}

// AssessmentRecord is one persisted outcome of a completed skill assessment.
type AssessmentRecord struct {
	Username        string
	PredictedCareer string
	Scores
	Timestamp time.Time
}

// Benchmark is the fixed industry average used for comparison charts.
var Benchmark = Scores{
	Logical:       75,
	Coding:        70,
	Communication: 65,
	Creativity:    60,
}
