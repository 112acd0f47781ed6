package classifier

import "careerai/internal/domain"

// Example is one labeled row of the training table.
type Example struct {
	Scores domain.Scores
	Role   string
}

var trainingSet = []Example{
	{domain.Scores{Logical: 90, Coding: 95, Communication: 50, Creativity: 40}, "Software Engineer"},
	{domain.Scores{Logical: 60, Coding: 40, Communication: 90, Creativity: 70}, "HR Manager"},
	{domain.Scores{Logical: 80, Coding: 85, Communication: 60, Creativity: 50}, "Data Scientist"},
	{domain.Scores{Logical: 50, Coding: 20, Communication: 85, Creativity: 90}, "Graphic Designer"},
	{domain.Scores{Logical: 95, Coding: 90, Communication: 40, Creativity: 30}, "Backend Dev"},
	{domain.Scores{Logical: 40, Coding: 10, Communication: 95, Creativity: 95}, "Public Speaker"},
	{domain.Scores{Logical: 70, Coding: 30, Communication: 70, Creativity: 80}, "Digital Marketer"},
	{domain.Scores{Logical: 85, Coding: 80, Communication: 55, Creativity: 45}, "ML Engineer"},
	{domain.Scores{Logical: 45, Coding: 15, Communication: 80, Creativity: 85}, "UI/UX Designer"},
	{domain.Scores{Logical: 65, Coding: 50, Communication: 75, Creativity: 60}, "Project Manager"},
	{domain.Scores{Logical: 30, Coding: 10, Communication: 95, Creativity: 90}, "Content Creator"},
	{domain.Scores{Logical: 88, Coding: 92, Communication: 45, Creativity: 40}, "Full Stack Dev"},
	{domain.Scores{Logical: 92, Coding: 96, Communication: 40, Creativity: 30}, "Cybersecurity Specialist"},
	{domain.Scores{Logical: 35, Coding: 5, Communication: 98, Creativity: 92}, "Event Manager"},
	{domain.Scores{Logical: 78, Coding: 82, Communication: 55, Creativity: 45}, "Cloud Architect"},
}

// TrainingSet returns a copy of the built-in career table.
func TrainingSet() []Example {
	out := make([]Example, len(trainingSet))
	copy(out, trainingSet)
	return out
}
