package repository

import (
	"context"

	"careerai/internal/domain"
)

// AssessmentRepository is the append-only log of assessment outcomes.
type AssessmentRepository interface {
	Init(ctx context.Context) error
	Append(ctx context.Context, record *domain.AssessmentRecord) error
	// ListByUser returns the user's records newest first.
	ListByUser(ctx context.Context, username string) ([]domain.AssessmentRecord, error)
}
