//go:build sqlite

package storage

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
)

func TestSQLiteStoreProfileAndBatchRoundTrip(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "genopt.db")

	store := NewSQLiteStore(dbPath)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	if err := store.SaveProfile(ctx, sampleProfile("nas")); err != nil {
		t.Fatalf("save profile: %v", err)
	}
	updated := sampleProfile("nas")
	updated.Probability = 0.9
	if err := store.SaveProfile(ctx, updated); err != nil {
		t.Fatalf("upsert profile: %v", err)
	}
	loaded, ok, err := store.GetProfile(ctx, "nas")
	if err != nil || !ok {
		t.Fatalf("get profile: ok=%t err=%v", ok, err)
	}
	if loaded.Probability != 0.9 || !reflect.DeepEqual(loaded.Space.Names(), []string{"units", "lr", "act"}) {
		t.Fatalf("unexpected profile: %+v", loaded)
	}

	names, err := store.ListProfiles(ctx)
	if err != nil || !reflect.DeepEqual(names, []string{"nas"}) {
		t.Fatalf("list profiles: %v err=%v", names, err)
	}

	if err := store.SaveBatch(ctx, sampleBatch("b1")); err != nil {
		t.Fatalf("save batch: %v", err)
	}
	batch, ok, err := store.GetBatch(ctx, "b1")
	if err != nil || !ok {
		t.Fatalf("get batch: ok=%t err=%v", ok, err)
	}
	if len(batch.Individuals) != 2 || batch.Profile != "nas" {
		t.Fatalf("unexpected batch: %+v", batch)
	}

	if err := store.DeleteProfile(ctx, "nas"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, err := store.GetProfile(ctx, "nas"); err != nil || ok {
		t.Fatalf("expected deleted profile, ok=%t err=%v", ok, err)
	}
}

func TestSQLiteStoreRequiresInit(t *testing.T) {
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "genopt.db"))
	if _, _, err := store.GetProfile(context.Background(), "x"); err == nil {
		t.Fatal("expected uninitialized store error")
	}
}
