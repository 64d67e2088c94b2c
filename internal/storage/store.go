package storage

import (
	"context"
	"time"

	"genopt/internal/model"
	"genopt/internal/space"
)

// Profile is a named, persisted mutation configuration.
type Profile struct {
	model.VersionedRecord
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Kind        string      `json:"mutation_kind"`
	Probability float64     `json:"probability"`
	Space       space.Space `json:"search_space"`
	MaxAttempts int         `json:"max_attempts,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Store persists mutation profiles and the genome batches they are applied to.
type Store interface {
	Init(ctx context.Context) error
	SaveProfile(ctx context.Context, profile Profile) error
	GetProfile(ctx context.Context, name string) (Profile, bool, error)
	ListProfiles(ctx context.Context) ([]string, error)
	DeleteProfile(ctx context.Context, name string) error
	SaveBatch(ctx context.Context, batch model.Batch) error
	GetBatch(ctx context.Context, id string) (model.Batch, bool, error)
}
