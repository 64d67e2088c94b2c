package genopt

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"genopt/internal/evo"
	"genopt/internal/model"
	"genopt/internal/space"
	"genopt/internal/stats"
	"genopt/internal/storage"
)

const defaultDBPath = "genopt.db"

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrBatchNotFound   = errors.New("batch not found")
)

type Options struct {
	StoreKind string
	DBPath    string
}

type Client struct {
	store storage.Store

	initOnce sync.Once
	initErr  error
}

// MutationConfig is the caller-facing form of an engine configuration.
type MutationConfig struct {
	Kind        string
	Probability float64
	SearchSpace space.Space
	MaxAttempts int
}

func (c MutationConfig) engineConfig() evo.Config {
	return evo.Config{
		Kind:        c.Kind,
		Probability: c.Probability,
		Space:       c.SearchSpace,
		MaxAttempts: c.MaxAttempts,
	}
}

// Engine validates the configuration and builds a mutation engine.
func (c MutationConfig) Engine() (*evo.Engine, error) {
	return evo.NewEngine(c.engineConfig())
}

type ProfileItem struct {
	ID        string
	Name      string
	Config    MutationConfig
	CreatedAt time.Time
}

type SaveProfileRequest struct {
	Name   string
	Config MutationConfig
}

type MutateRequest struct {
	// Profile names a stored config; Config is used when Profile is empty.
	Profile string
	Config  *MutationConfig
	// Individuals are mutated directly; when empty the stored batch
	// BatchID is loaded instead.
	Individuals []model.Individual
	BatchID     string
	Seed        int64
	Workers     int
	// Save persists the mutated individuals as a batch.
	Save bool
}

type MutateResult struct {
	BatchID     string
	Individuals []model.Individual
	Outcomes    []evo.Outcome
}

type TrialRequest struct {
	Profile  string
	Config   *MutationConfig
	Baseline model.Genome
	Trials   int
	Seed     int64
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}
	return &Client{store: store}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	return c.ensureStore(ctx)
}

func (c *Client) SaveProfile(ctx context.Context, req SaveProfileRequest) (ProfileItem, error) {
	if req.Name == "" {
		return ProfileItem{}, errors.New("profile name is required")
	}
	if _, err := req.Config.Engine(); err != nil {
		return ProfileItem{}, fmt.Errorf("profile %s: %w", req.Name, err)
	}
	if err := c.ensureStore(ctx); err != nil {
		return ProfileItem{}, err
	}

	profile := storage.Profile{
		VersionedRecord: storage.CurrentVersion(),
		ID:              uuid.NewString(),
		Name:            req.Name,
		Kind:            req.Config.Kind,
		Probability:     req.Config.Probability,
		Space:           req.Config.SearchSpace,
		MaxAttempts:     req.Config.MaxAttempts,
		CreatedAt:       time.Now().UTC(),
	}
	if err := c.store.SaveProfile(ctx, profile); err != nil {
		return ProfileItem{}, err
	}
	return profileItem(profile), nil
}

func (c *Client) Profiles(ctx context.Context) ([]ProfileItem, error) {
	if err := c.ensureStore(ctx); err != nil {
		return nil, err
	}
	names, err := c.store.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ProfileItem, 0, len(names))
	for _, name := range names {
		item, err := c.Profile(ctx, name)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (c *Client) Profile(ctx context.Context, name string) (ProfileItem, error) {
	if err := c.ensureStore(ctx); err != nil {
		return ProfileItem{}, err
	}
	profile, ok, err := c.store.GetProfile(ctx, name)
	if err != nil {
		return ProfileItem{}, err
	}
	if !ok {
		return ProfileItem{}, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	return profileItem(profile), nil
}

func (c *Client) DeleteProfile(ctx context.Context, name string) error {
	if err := c.ensureStore(ctx); err != nil {
		return err
	}
	return c.store.DeleteProfile(ctx, name)
}

// Mutate runs one mutation pass over a batch. On a partial failure the
// result still carries every individual and outcome alongside the error.
func (c *Client) Mutate(ctx context.Context, req MutateRequest) (MutateResult, error) {
	engine, err := c.resolveEngine(ctx, req.Profile, req.Config)
	if err != nil {
		return MutateResult{}, err
	}

	individuals := req.Individuals
	batchID := req.BatchID
	if len(individuals) == 0 {
		if batchID == "" {
			return MutateResult{}, errors.New("mutate requires individuals or a batch id")
		}
		if err := c.ensureStore(ctx); err != nil {
			return MutateResult{}, err
		}
		batch, ok, err := c.store.GetBatch(ctx, batchID)
		if err != nil {
			return MutateResult{}, err
		}
		if !ok {
			return MutateResult{}, fmt.Errorf("%w: %s", ErrBatchNotFound, batchID)
		}
		individuals = batch.Individuals
	}

	working := make([]*model.Individual, len(individuals))
	for i := range individuals {
		working[i] = individuals[i].Clone()
		if working[i].ID == "" {
			working[i].ID = uuid.NewString()
		}
	}

	outcomes, mutateErr := evo.MutateBatch(ctx, engine, working, evo.BatchOptions{Workers: req.Workers, Seed: req.Seed})
	result := MutateResult{
		BatchID:     batchID,
		Individuals: make([]model.Individual, len(working)),
		Outcomes:    outcomes,
	}
	for i, ind := range working {
		result.Individuals[i] = *ind
	}
	if mutateErr != nil {
		return result, mutateErr
	}

	if req.Save {
		if result.BatchID == "" {
			result.BatchID = uuid.NewString()
		}
		if err := c.ensureStore(ctx); err != nil {
			return result, err
		}
		if err := c.store.SaveBatch(ctx, model.Batch{
			VersionedRecord: storage.CurrentVersion(),
			ID:              result.BatchID,
			Profile:         req.Profile,
			Individuals:     result.Individuals,
		}); err != nil {
			return result, err
		}
	}
	return result, nil
}

// SaveBatch stores individuals under a new or given id and returns the id.
func (c *Client) SaveBatch(ctx context.Context, id, profile string, individuals []model.Individual) (string, error) {
	if err := c.ensureStore(ctx); err != nil {
		return "", err
	}
	if id == "" {
		id = uuid.NewString()
	}
	batch := model.Batch{
		VersionedRecord: storage.CurrentVersion(),
		ID:              id,
		Profile:         profile,
		Individuals:     make([]model.Individual, len(individuals)),
	}
	for i, ind := range individuals {
		batch.Individuals[i] = *ind.Clone()
		if batch.Individuals[i].ID == "" {
			batch.Individuals[i].ID = uuid.NewString()
		}
	}
	return id, c.store.SaveBatch(ctx, batch)
}

func (c *Client) Trial(ctx context.Context, req TrialRequest) (stats.TrialReport, error) {
	engine, err := c.resolveEngine(ctx, req.Profile, req.Config)
	if err != nil {
		return stats.TrialReport{}, err
	}
	return stats.Trial(ctx, engine, stats.TrialRequest{
		Baseline: req.Baseline,
		Trials:   req.Trials,
		Seed:     req.Seed,
	})
}

func (c *Client) resolveEngine(ctx context.Context, profileName string, cfg *MutationConfig) (*evo.Engine, error) {
	if profileName != "" && cfg != nil {
		return nil, errors.New("use either a profile or an inline config")
	}
	if profileName == "" {
		if cfg == nil {
			return nil, errors.New("a profile or an inline config is required")
		}
		return cfg.Engine()
	}
	item, err := c.Profile(ctx, profileName)
	if err != nil {
		return nil, err
	}
	return item.Config.Engine()
}

func (c *Client) ensureStore(ctx context.Context) error {
	c.initOnce.Do(func() {
		c.initErr = c.store.Init(ctx)
	})
	return c.initErr
}

func profileItem(p storage.Profile) ProfileItem {
	return ProfileItem{
		ID:   p.ID,
		Name: p.Name,
		Config: MutationConfig{
			Kind:        p.Kind,
			Probability: p.Probability,
			SearchSpace: p.Space,
			MaxAttempts: p.MaxAttempts,
		},
		CreatedAt: p.CreatedAt,
	}
}
