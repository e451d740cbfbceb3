// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

package uploads

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/packetsim/internal/dataset"
	"github.com/tomtom215/packetsim/internal/logging"
	"github.com/tomtom215/packetsim/internal/metrics"
	"github.com/tomtom215/packetsim/internal/models"
)

var (
	// ErrNotFound is returned for unknown dataset IDs.
	ErrNotFound = errors.New("dataset not found")

	// ErrTooLarge is returned when an upload exceeds the size limit.
	ErrTooLarge = errors.New("dataset upload too large")

	// ErrReadOnly is returned when deleting a dataset registered from a file.
	ErrReadOnly = errors.New("dataset is read-only")
)

// Source values of models.DatasetInfo.
const (
	SourceFile   = "file"
	SourceUpload = "upload"
)

// RangeFunc computes the selectable packet range for a dataset size.
type RangeFunc func(rows int) models.PacketRange

// CatalogConfig configures a Catalog.
type CatalogConfig struct {
	Options        dataset.Options
	MaxUploadBytes int64
	PacketRange    RangeFunc

	// GCInterval is how often Serve reclaims space from deleted uploads.
	// 0 disables collection.
	GCInterval time.Duration
}

// Catalog resolves dataset IDs to cleaned datasets. File datasets live in
// memory; uploads are persisted in the Store and parsed on first use.
type Catalog struct {
	store *Store
	cfg   CatalogConfig

	mu     sync.RWMutex
	files  map[string]models.DatasetInfo
	parsed map[string]*models.Dataset
}

// NewCatalog creates a catalog backed by store.
func NewCatalog(store *Store, cfg CatalogConfig) *Catalog {
	if cfg.PacketRange == nil {
		cfg.PacketRange = func(rows int) models.PacketRange {
			return models.NewPacketRange(rows, 10, 200, 50)
		}
	}
	c := &Catalog{
		store:  store,
		cfg:    cfg,
		files:  make(map[string]models.DatasetInfo),
		parsed: make(map[string]*models.Dataset),
	}
	c.updateGauge(context.Background())
	return c
}

func (c *Catalog) describe(id, name, source string, ds *models.Dataset, size int64) models.DatasetInfo {
	return models.DatasetInfo{
		ID:          id,
		Name:        name,
		Source:      source,
		Rows:        ds.Len(),
		Features:    ds.Width(),
		LabelCounts: ds.LabelCounts(),
		SizeBytes:   size,
		CreatedAt:   time.Now().UTC(),
		PacketRange: c.cfg.PacketRange(ds.Len()),
	}
}

// RegisterFile loads a dataset from disk and makes it available as id.
func (c *Catalog) RegisterFile(ctx context.Context, id, path, loader string) (models.DatasetInfo, error) {
	start := time.Now()
	ds, err := dataset.LoadFile(ctx, path, loader, c.cfg.Options)
	if err != nil {
		return models.DatasetInfo{}, err
	}

	var size int64
	if st, err := os.Stat(path); err == nil {
		size = st.Size()
	}
	info := c.describe(id, path, SourceFile, ds, size)

	c.mu.Lock()
	c.files[id] = info
	c.parsed[id] = ds
	c.mu.Unlock()
	c.updateGauge(ctx)

	logging.Info().
		Str("dataset_id", id).
		Str("path", path).
		Str("loader", loader).
		Int("rows", info.Rows).
		Int("features", info.Features).
		Dur("duration", time.Since(start)).
		Msg("Dataset registered")
	return info, nil
}

// Upload validates a CSV dataset, persists it and returns its metadata.
// Validation errors wrap models.ErrConfiguration or models.ErrInsufficientData.
func (c *Catalog) Upload(ctx context.Context, name string, r io.Reader) (models.DatasetInfo, error) {
	limit := c.cfg.MaxUploadBytes
	if limit > 0 {
		r = io.LimitReader(r, limit+1)
	}
	blob, err := io.ReadAll(r)
	if err != nil {
		metrics.RecordDatasetUpload("error")
		return models.DatasetInfo{}, fmt.Errorf("read upload: %w", err)
	}
	if limit > 0 && int64(len(blob)) > limit {
		metrics.RecordDatasetUpload("rejected")
		return models.DatasetInfo{}, fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, limit)
	}

	ds, err := dataset.ReadCSV(bytes.NewReader(blob), c.cfg.Options)
	if err != nil {
		metrics.RecordDatasetUpload("rejected")
		return models.DatasetInfo{}, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = "upload.csv"
	}
	info := c.describe(uuid.New().String(), name, SourceUpload, ds, int64(len(blob)))

	if err := c.store.Put(ctx, info, blob); err != nil {
		metrics.RecordDatasetUpload("error")
		return models.DatasetInfo{}, err
	}

	c.mu.Lock()
	c.parsed[info.ID] = ds
	c.mu.Unlock()
	c.updateGauge(ctx)
	metrics.RecordDatasetUpload("success")

	logging.Info().
		Str("dataset_id", info.ID).
		Str("name", info.Name).
		Int("rows", info.Rows).
		Int64("bytes", info.SizeBytes).
		Msg("Dataset uploaded")
	return info, nil
}

// Load returns the cleaned dataset for id.
func (c *Catalog) Load(ctx context.Context, id string) (*models.Dataset, error) {
	c.mu.RLock()
	ds, ok := c.parsed[id]
	c.mu.RUnlock()
	if ok {
		return ds, nil
	}

	blob, err := c.store.Blob(ctx, id)
	if err != nil {
		return nil, err
	}
	ds, err = dataset.ReadCSV(bytes.NewReader(blob), c.cfg.Options)
	if err != nil {
		return nil, fmt.Errorf("parse stored dataset %s: %w", id, err)
	}

	c.mu.Lock()
	c.parsed[id] = ds
	c.mu.Unlock()
	return ds, nil
}

// Get returns dataset metadata.
func (c *Catalog) Get(ctx context.Context, id string) (models.DatasetInfo, error) {
	c.mu.RLock()
	info, ok := c.files[id]
	c.mu.RUnlock()
	if ok {
		return info, nil
	}
	return c.store.Info(ctx, id)
}

// List returns every dataset, oldest first.
func (c *Catalog) List(ctx context.Context) ([]models.DatasetInfo, error) {
	uploaded, err := c.store.List(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	out := make([]models.DatasetInfo, 0, len(c.files)+len(uploaded))
	for _, info := range c.files {
		out = append(out, info)
	}
	c.mu.RUnlock()
	out = append(out, uploaded...)

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// Delete removes an uploaded dataset. Runs already started keep their copy.
func (c *Catalog) Delete(ctx context.Context, id string) error {
	c.mu.RLock()
	_, isFile := c.files[id]
	c.mu.RUnlock()
	if isFile {
		return ErrReadOnly
	}

	if err := c.store.Delete(ctx, id); err != nil {
		return err
	}

	c.mu.Lock()
	delete(c.parsed, id)
	c.mu.Unlock()
	c.updateGauge(ctx)

	logging.Info().Str("dataset_id", id).Msg("Dataset deleted")
	return nil
}

func (c *Catalog) updateGauge(ctx context.Context) {
	n, err := c.store.Count(ctx)
	if err != nil {
		logging.Warn().Err(err).Msg("Failed to count uploaded datasets")
		return
	}
	c.mu.RLock()
	n += len(c.files)
	c.mu.RUnlock()
	metrics.DatasetsRegistered.Set(float64(n))
}

// Serve runs periodic store garbage collection until ctx is canceled, then
// closes the store. It implements suture.Service.
func (c *Catalog) Serve(ctx context.Context) error {
	var tick <-chan time.Time
	if c.cfg.GCInterval > 0 {
		ticker := time.NewTicker(c.cfg.GCInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			if err := c.store.Close(); err != nil {
				logging.Error().Err(err).Msg("Failed to close upload store")
			}
			return ctx.Err()
		case <-tick:
			if err := c.store.RunGC(); err != nil {
				logging.Warn().Err(err).Msg("Upload store garbage collection failed")
			}
		}
	}
}
