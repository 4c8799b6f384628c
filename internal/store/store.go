// Package store provides persistence for analysis history.
package store

import (
	"context"
	"time"

	"optionpulse/internal/models"
)

// AnalysisStore defines the interface for analysis persistence.
type AnalysisStore interface {
	// SaveAnalysis records one completed chain analysis.
	SaveAnalysis(ctx context.Context, a *models.ChainAnalysis) error

	// GetAnalyses returns stored analyses matching the filter, newest first.
	GetAnalyses(ctx context.Context, filter AnalysisFilter) ([]StoredAnalysis, error)

	// GetAnalysisByID returns one stored analysis with its full detail.
	GetAnalysisByID(ctx context.Context, id int64) (*StoredAnalysis, error)

	// Close releases the underlying database.
	Close() error
}

// AnalysisFilter narrows a history query. Zero values mean no constraint.
type AnalysisFilter struct {
	Symbol string
	From   time.Time
	To     time.Time
	Limit  int
}

// StoredAnalysis is one history row. Detail carries the full ChainAnalysis
// as recorded at save time.
type StoredAnalysis struct {
	ID        int64
	Symbol    string
	Spot      float64
	Expiry    time.Time
	Timestamp time.Time
	Bias      models.BiasDirection
	CEStrike  float64
	PEStrike  float64
	MaxPain   float64
	Detail    *models.ChainAnalysis
}
