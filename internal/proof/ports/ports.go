// Package ports defines the collaborators proof generation depends on.
package ports

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks UniquenessEvaluator,OwnershipScorer

import (
	"context"

	"dataproof/internal/proof/models"
	uniqueness "dataproof/internal/uniqueness/service"
)

// UniquenessEvaluator scores a submission against the historical corpus.
type UniquenessEvaluator interface {
	Evaluate(ctx context.Context, sub *models.Submission) *uniqueness.Evaluation
}

// OwnershipScorer confirms the submitter controls the wallet.
type OwnershipScorer interface {
	Score(ctx context.Context, wallet string, subTypes []string) (float64, error)
}
