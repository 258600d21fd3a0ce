// Package store defines the local detection audit log.
package store

import (
	"context"
	"time"
)

// Detection is one recorded detect call. Prompts themselves are never
// stored, only their length.
type Detection struct {
	DetectionID string
	CreatedAt   time.Time
	PromptChars int
	Safe        bool
	FailOpen    bool
	Error       string
	LatencyMS   int64
}

// CanaryCheck is one recorded canary leakage check.
type CanaryCheck struct {
	ID         int64
	CreatedAt  time.Time
	CanaryWord string
	Leaked     bool
}

// Store persists detection results and canary checks.
type Store interface {
	RecordDetection(ctx context.Context, d Detection) error
	ListDetections(ctx context.Context, limit int) ([]Detection, error)

	RecordCanaryCheck(ctx context.Context, c CanaryCheck) error
	ListCanaryChecks(ctx context.Context, limit int) ([]CanaryCheck, error)

	Close() error
}
