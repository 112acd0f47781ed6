package service

import "careerai/internal/domain"

type AdviceLevel string

const (
	AdviceWarning AdviceLevel = "warning"
	AdviceInfo    AdviceLevel = "info"
)

const (
	AdviceCodingWeakness        = "coding_weakness"
	AdviceCommunicationWeakness = "communication_weakness"
	AdviceExcellenceAlert       = "excellence_alert"
)

// Advice is one recommendation derived from the submitted scores.
type Advice struct {
	Code    string      `json:"code"`
	Level   AdviceLevel `json:"level"`
	Message string      `json:"message"`
}

// Recommend applies the fixed threshold rules in display order.
func Recommend(s domain.Scores) []Advice {
	advice := []Advice{}
	if s.Coding < 60 {
		advice = append(advice, Advice{
			Code:    AdviceCodingWeakness,
			Level:   AdviceWarning,
			Message: "Coding score is low. Focus on data structures and algorithms.",
		})
	}
	if s.Communication < 60 {
		advice = append(advice, Advice{
			Code:    AdviceCommunicationWeakness,
			Level:   AdviceWarning,
			Message: "Work on improving your communication skills.",
		})
	}
	if s.Logical > 80 && s.Coding > 80 {
		advice = append(advice, Advice{
			Code:    AdviceExcellenceAlert,
			Level:   AdviceInfo,
			Message: "Excellence Alert: you are a fit for high-end AI roles!",
		})
	}
	return advice
}
