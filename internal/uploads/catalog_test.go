// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

package uploads

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/packetsim/internal/dataset"
	"github.com/tomtom215/packetsim/internal/logging"
	"github.com/tomtom215/packetsim/internal/models"
)

func init() {
	logging.Init(logging.Config{Level: "info", Format: "console", Output: io.Discard})
}

const uploadCSV = `Flow Duration,Total Fwd Packets, Label
100,2,BENIGN
200,4,DDoS
300,6,BENIGN
`

func newTestCatalog(t *testing.T, maxBytes int64) *Catalog {
	t.Helper()
	store, err := OpenStore(StoreConfig{InMemory: true})
	if err != nil {
		t.Fatalf("OpenStore() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return NewCatalog(store, CatalogConfig{MaxUploadBytes: maxBytes})
}

func TestCatalog_UploadLoad(t *testing.T) {
	t.Parallel()

	c := newTestCatalog(t, 1<<20)
	ctx := context.Background()

	info, err := c.Upload(ctx, " traffic.csv ", strings.NewReader(uploadCSV))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if info.Name != "traffic.csv" || info.Source != SourceUpload {
		t.Errorf("info = %+v", info)
	}
	if info.Rows != 3 || info.Features != 2 {
		t.Errorf("rows/features = %d/%d, want 3/2", info.Rows, info.Features)
	}
	if info.LabelCounts["BENIGN"] != 2 || info.LabelCounts["DDoS"] != 1 {
		t.Errorf("LabelCounts = %v", info.LabelCounts)
	}
	if info.PacketRange != (models.PacketRange{Min: 3, Max: 3, Default: 3}) {
		t.Errorf("PacketRange = %+v", info.PacketRange)
	}

	ds, err := c.Load(ctx, info.ID)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if ds.Len() != 3 || ds.Labels[1] != "DDoS" {
		t.Errorf("loaded dataset = %+v", ds)
	}

	got, err := c.Get(ctx, info.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.ID != info.ID || got.Rows != 3 {
		t.Errorf("Get() = %+v", got)
	}
}

func TestCatalog_LoadFromStoreAfterCacheMiss(t *testing.T) {
	t.Parallel()

	store, err := OpenStore(StoreConfig{InMemory: true})
	if err != nil {
		t.Fatalf("OpenStore() error = %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	info, err := NewCatalog(store, CatalogConfig{}).Upload(ctx, "a.csv", strings.NewReader(uploadCSV))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	// A fresh catalog over the same store has an empty parse cache.
	fresh := NewCatalog(store, CatalogConfig{})
	ds, err := fresh.Load(ctx, info.ID)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if ds.Len() != 3 {
		t.Errorf("Len() = %d, want 3", ds.Len())
	}
}

func TestCatalog_UploadRejected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		limit   int64
		wantErr error
	}{
		{"missing label", "a,b\n1,2\n", 0, models.ErrConfiguration},
		{"non numeric feature", "a, Label\nfast,BENIGN\n", 0, models.ErrConfiguration},
		{"no usable rows", "a,Label\nNaN,BENIGN\n", 0, models.ErrInsufficientData},
		{"too large", uploadCSV, 10, ErrTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCatalog(t, tt.limit)
			_, err := c.Upload(context.Background(), "bad.csv", strings.NewReader(tt.body))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Upload() error = %v, want %v", err, tt.wantErr)
			}
			list, err := c.List(context.Background())
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(list) != 0 {
				t.Errorf("rejected upload was stored: %+v", list)
			}
		})
	}
}

func TestCatalog_RegisterFileAndList(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "DDos.csv")
	if err := os.WriteFile(path, []byte(uploadCSV), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	c := newTestCatalog(t, 0)
	ctx := context.Background()

	file, err := c.RegisterFile(ctx, "default", path, dataset.LoaderCSV)
	if err != nil {
		t.Fatalf("RegisterFile() error = %v", err)
	}
	if file.Source != SourceFile || file.SizeBytes != int64(len(uploadCSV)) {
		t.Errorf("file info = %+v", file)
	}

	up, err := c.Upload(ctx, "b.csv", strings.NewReader(uploadCSV))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	list, err := c.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 2 || list[0].ID != "default" || list[1].ID != up.ID {
		t.Errorf("List() = %+v", list)
	}

	if err := c.Delete(ctx, "default"); !errors.Is(err, ErrReadOnly) {
		t.Errorf("Delete(file) error = %v, want ErrReadOnly", err)
	}
	if _, err := c.Load(ctx, "default"); err != nil {
		t.Errorf("Load(default) error = %v", err)
	}

	if _, err := c.RegisterFile(ctx, "gone", filepath.Join(t.TempDir(), "none.csv"), dataset.LoaderCSV); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("RegisterFile(missing) error = %v", err)
	}
}

func TestCatalog_Delete(t *testing.T) {
	t.Parallel()

	c := newTestCatalog(t, 0)
	ctx := context.Background()

	info, err := c.Upload(ctx, "a.csv", strings.NewReader(uploadCSV))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if err := c.Delete(ctx, info.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := c.Load(ctx, info.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load() after delete error = %v, want ErrNotFound", err)
	}
	if _, err := c.Get(ctx, info.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
	if err := c.Delete(ctx, info.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestOpenStore_OnDisk(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx := context.Background()

	store, err := OpenStore(StoreConfig{Path: dir})
	if err != nil {
		t.Fatalf("OpenStore() error = %v", err)
	}
	info := models.DatasetInfo{ID: "abc", Name: "x.csv", Rows: 3}
	if err := store.Put(ctx, info, []byte(uploadCSV)); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := OpenStore(StoreConfig{Path: dir})
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	blob, err := reopened.Blob(ctx, "abc")
	if err != nil || string(blob) != uploadCSV {
		t.Errorf("Blob() = %q, %v", blob, err)
	}
	if n, _ := reopened.Count(ctx); n != 1 {
		t.Errorf("Count() = %d, want 1", n)
	}

	if _, err := OpenStore(StoreConfig{}); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestCatalog_ServeClosesStore(t *testing.T) {
	t.Parallel()

	store, err := OpenStore(StoreConfig{Path: t.TempDir()})
	if err != nil {
		t.Fatalf("OpenStore() error = %v", err)
	}
	c := NewCatalog(store, CatalogConfig{GCInterval: 10 * time.Millisecond})

	info, err := c.Upload(context.Background(), "gc.csv", strings.NewReader(uploadCSV))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if err := c.Delete(context.Background(), info.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- c.Serve(ctx) }()

	// Let a few GC ticks pass on the on-disk store.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve() did not return")
	}
}

func TestStore_RunGCInMemory(t *testing.T) {
	t.Parallel()

	store, err := OpenStore(StoreConfig{InMemory: true})
	if err != nil {
		t.Fatalf("OpenStore() error = %v", err)
	}
	defer store.Close()
	if err := store.RunGC(); err != nil {
		t.Errorf("RunGC() on in-memory store = %v", err)
	}
}
