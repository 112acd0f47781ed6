package service

import (
	"careerai/internal/classifier"
	"careerai/internal/domain"
)

// RadarPoint is one axis of the skill radar chart.
type RadarPoint struct {
	Axis  string `json:"axis"`
	Value int    `json:"value"`
}

// BenchmarkPoint pairs a user score with the industry average.
type BenchmarkPoint struct {
	Metric      string `json:"metric"`
	YourScore   int    `json:"your_score"`
	IndustryAvg int    `json:"industry_avg"`
}

// RoleProfile is the reference skill profile of one career.
type RoleProfile struct {
	Role string `json:"role"`
	domain.Scores
}

func Radar(s domain.Scores) []RadarPoint {
	return []RadarPoint{
		{Axis: "Logic", Value: s.Logical},
		{Axis: "Coding", Value: s.Coding},
		{Axis: "Comm", Value: s.Communication},
		{Axis: "Creativity", Value: s.Creativity},
	}
}

func Benchmark(s domain.Scores) []BenchmarkPoint {
	b := domain.Benchmark
	return []BenchmarkPoint{
		{Metric: "Logic", YourScore: s.Logical, IndustryAvg: b.Logical},
		{Metric: "Coding", YourScore: s.Coding, IndustryAvg: b.Coding},
		{Metric: "Comm", YourScore: s.Communication, IndustryAvg: b.Communication},
		{Metric: "Crea", YourScore: s.Creativity, IndustryAvg: b.Creativity},
	}
}

func roleProfiles(examples []classifier.Example) []RoleProfile {
	out := make([]RoleProfile, len(examples))
	for i, ex := range examples {
		out[i] = RoleProfile{Role: ex.Role, Scores: ex.Scores}
	}
	return out
}
