package storage

import (
	"context"
	"errors"
	"sort"
	"sync"

	"genopt/internal/model"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	profiles    map[string]Profile
	batches     map[string]model.Batch
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.profiles = make(map[string]Profile)
	s.batches = make(map[string]model.Batch)
	return nil
}

func (s *MemoryStore) SaveProfile(_ context.Context, profile Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errors.New("store is not initialized")
	}
	if profile.Name == "" {
		return errors.New("profile name is required")
	}
	s.profiles[profile.Name] = profile
	return nil
}

func (s *MemoryStore) GetProfile(_ context.Context, name string) (Profile, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, ok := s.profiles[name]
	return profile, ok, nil
}

func (s *MemoryStore) ListProfiles(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.profiles))
	for name := range s.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *MemoryStore) DeleteProfile(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.profiles, name)
	return nil
}

func (s *MemoryStore) SaveBatch(_ context.Context, batch model.Batch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errors.New("store is not initialized")
	}
	if batch.ID == "" {
		return errors.New("batch id is required")
	}
	s.batches[batch.ID] = cloneBatch(batch)
	return nil
}

func (s *MemoryStore) GetBatch(_ context.Context, id string) (model.Batch, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	batch, ok := s.batches[id]
	if !ok {
		return model.Batch{}, false, nil
	}
	return cloneBatch(batch), true, nil
}

func cloneBatch(batch model.Batch) model.Batch {
	out := batch
	out.Individuals = make([]model.Individual, len(batch.Individuals))
	for i, ind := range batch.Individuals {
		out.Individuals[i] = model.Individual{ID: ind.ID, Genome: ind.Genome.Clone()}
	}
	return out
}
