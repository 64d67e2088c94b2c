package storage

import (
	"errors"
	"fmt"
	"os"
)

var ErrSQLiteUnavailable = errors.New("sqlite backend unavailable in this build")

// StoreKindEnv overrides the default backend.
const StoreKindEnv = "GENOPT_STORE"

func DefaultStoreKind() string {
	if kind := os.Getenv(StoreKindEnv); kind != "" {
		return kind
	}
	return "memory"
}

func NewStore(kind, sqlitePath string) (Store, error) {
	switch kind {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return newSQLiteStore(sqlitePath)
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", kind)
	}
}

func CloseIfSupported(store Store) error {
	closer, ok := store.(interface{ Close() error })
	if !ok {
		return nil
	}
	return closer.Close()
}
