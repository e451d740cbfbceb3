// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

package simulation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/packetsim/internal/classifier"
	"github.com/tomtom215/packetsim/internal/events"
	"github.com/tomtom215/packetsim/internal/identity"
	"github.com/tomtom215/packetsim/internal/logging"
	"github.com/tomtom215/packetsim/internal/metrics"
	"github.com/tomtom215/packetsim/internal/models"
)

var (
	// ErrRunNotFound is returned for unknown or evicted run IDs.
	ErrRunNotFound = errors.New("run not found")

	// ErrTooManyRuns is returned when the concurrent run limit is reached.
	ErrTooManyRuns = errors.New("too many concurrent runs")

	// ErrManagerStopped is returned by Start after shutdown.
	ErrManagerStopped = errors.New("run manager stopped")
)

// DatasetSource resolves a dataset ID to a cleaned dataset.
type DatasetSource interface {
	Load(ctx context.Context, id string) (*models.Dataset, error)
}

// Transformer is the fitted preprocessing step.
type Transformer interface {
	Transform(ds *models.Dataset) ([][]float64, error)
}

// Publisher receives run lifecycle and packet events.
type Publisher interface {
	Publish(ctx context.Context, e *events.Event) error
}

// ManagerConfig controls run admission and retention.
type ManagerConfig struct {
	Engine Config

	ShuffleSeed  uint64
	IdentitySeed uint64 // 0 draws fresh addresses for every run

	MinPacketCount     int
	MaxPacketCount     int
	DefaultPacketCount int

	MaxConcurrentRuns int
	RetainedRuns      int
}

// DefaultManagerConfig returns the interactive defaults.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		Engine:             DefaultConfig(),
		ShuffleSeed:        models.DefaultShuffleSeed,
		MinPacketCount:     10,
		MaxPacketCount:     200,
		DefaultPacketCount: 50,
		MaxConcurrentRuns:  4,
		RetainedRuns:       20,
	}
}

// RunRequest asks for a new run. PacketCount 0 selects the default; any
// other value is clamped to the dataset's packet range.
type RunRequest struct {
	DatasetID   string
	PacketCount int
}

type run struct {
	info    models.RunInfo
	records []models.PacketRecord
	cancel  context.CancelFunc
	done    chan struct{}
}

// Manager executes simulation runs in the background and keeps their state
// for inspection and export until they are evicted.
type Manager struct {
	cfg        ManagerConfig
	engine     *Engine
	datasets   DatasetSource
	scaler     Transformer
	classifier classifier.Classifier
	publisher  Publisher
	eventLog   *logging.EventLogger

	// State
	mu       sync.RWMutex
	runs     map[string]*run
	finished []string // terminal run IDs, oldest first
	active   int
	stopped  bool
	wg       sync.WaitGroup

	rootCtx    context.Context
	rootCancel context.CancelFunc
}

// NewManager creates a run manager. publisher may be nil.
func NewManager(cfg ManagerConfig, datasets DatasetSource, scaler Transformer, clf classifier.Classifier, publisher Publisher) *Manager {
	if cfg.MaxConcurrentRuns <= 0 {
		cfg.MaxConcurrentRuns = 1
	}
	if cfg.RetainedRuns < 0 {
		cfg.RetainedRuns = 0
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		cfg:        cfg,
		engine:     NewEngine(cfg.Engine),
		datasets:   datasets,
		scaler:     scaler,
		classifier: clf,
		publisher:  publisher,
		eventLog:   logging.NewEventLogger(),
		runs:       make(map[string]*run),
		rootCtx:    ctx,
		rootCancel: cancel,
	}
}

// PacketRange returns the selectable packet-count interval for a dataset size.
func (m *Manager) PacketRange(rows int) models.PacketRange {
	return models.NewPacketRange(rows, m.cfg.MinPacketCount, m.cfg.MaxPacketCount, m.cfg.DefaultPacketCount)
}

// Start validates the request synchronously and then executes the run in
// the background. Errors returned here mean no run was created.
func (m *Manager) Start(ctx context.Context, req RunRequest) (models.RunInfo, error) {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return models.RunInfo{}, ErrManagerStopped
	}
	if m.active >= m.cfg.MaxConcurrentRuns {
		m.mu.Unlock()
		return models.RunInfo{}, fmt.Errorf("%w: limit is %d", ErrTooManyRuns, m.cfg.MaxConcurrentRuns)
	}
	// Reserve the slot while the dataset is prepared.
	m.active++
	m.mu.Unlock()

	in, err := m.prepare(ctx, req)
	if err != nil {
		m.mu.Lock()
		m.active--
		m.mu.Unlock()
		return models.RunInfo{}, err
	}

	id := uuid.New().String()
	runCtx, cancel := context.WithCancel(logging.ContextWithRunID(m.rootCtx, id))
	r := &run{
		info: models.RunInfo{
			ID:          id,
			DatasetID:   req.DatasetID,
			Status:      models.RunStatusRunning,
			PacketCount: in.Count,
			Snapshot:    models.Snapshot{Total: in.Count},
			StartedAt:   time.Now().UTC(),
		},
		records: make([]models.PacketRecord, 0, in.Count),
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	m.mu.Lock()
	if m.stopped {
		m.active--
		m.mu.Unlock()
		cancel()
		return models.RunInfo{}, ErrManagerStopped
	}
	m.runs[id] = r
	info := r.info
	m.wg.Add(1)
	m.mu.Unlock()

	metrics.RecordRunStarted()
	logging.Ctx(runCtx).Info().
		Str("dataset_id", req.DatasetID).
		Int("packet_count", in.Count).
		Msg("Simulation run started")
	m.publish(runCtx, events.RunStarted(info))

	go m.execute(runCtx, r, in)

	return info, nil
}

func (m *Manager) prepare(ctx context.Context, req RunRequest) (Input, error) {
	ds, err := m.datasets.Load(ctx, req.DatasetID)
	if err != nil {
		return Input{}, err
	}

	shuffled := ds.Shuffle(m.cfg.ShuffleSeed)
	features, err := m.scaler.Transform(shuffled)
	if err != nil {
		return Input{}, err
	}

	rng := m.PacketRange(shuffled.Len())
	count := rng.Default
	if req.PacketCount != 0 {
		count = rng.Clamp(req.PacketCount)
	}

	in := Input{
		Dataset:    shuffled,
		Features:   features,
		Classifier: m.classifier,
		Identity:   identity.New(m.cfg.IdentitySeed),
		Count:      count,
	}
	if err := m.engine.Validate(in); err != nil {
		return Input{}, err
	}
	return in, nil
}

func (m *Manager) execute(ctx context.Context, r *run, in Input) {
	defer m.wg.Done()
	defer close(r.done)
	defer r.cancel()

	id := r.info.ID
	sink := Tee(
		SinkFunc(func(_ context.Context, rec models.PacketRecord, snap models.Snapshot) error {
			m.mu.Lock()
			r.records = append(r.records, rec)
			r.info.Snapshot = snap
			m.mu.Unlock()
			return nil
		}),
		SinkFunc(func(ctx context.Context, rec models.PacketRecord, snap models.Snapshot) error {
			m.publish(ctx, events.Packet(id, rec, snap))
			return nil
		}),
	)

	acc, err := m.engine.Run(ctx, in, sink)
	finished := time.Now().UTC()

	m.mu.Lock()
	r.info.FinishedAt = &finished
	r.info.Snapshot = acc.Snapshot(m.engine.cfg.RecentRecords)
	switch {
	case err == nil:
		r.info.Status = models.RunStatusCompleted
		r.info.Summary = models.CompletionSummary(acc.Normal, acc.Attack)
	case errors.Is(err, context.Canceled):
		r.info.Status = models.RunStatusCanceled
		r.info.ErrorKind = models.KindCanceled
	default:
		r.info.Status = models.RunStatusFailed
		r.info.ErrorKind = models.KindOf(err)
		r.info.Error = err.Error()
	}
	info := r.info
	m.active--
	m.finished = append(m.finished, info.ID)
	m.evictLocked()
	m.mu.Unlock()

	metrics.RecordRunFinished(string(info.Status), string(info.ErrorKind), finished.Sub(info.StartedAt))

	log := logging.Ctx(ctx)
	event := log.Info()
	if info.Status == models.RunStatusFailed {
		event = log.Error().Err(err).Str("error_kind", string(info.ErrorKind))
	}
	event.
		Str("status", string(info.Status)).
		Int("processed", acc.Processed()).
		Int("normal", acc.Normal).
		Int("attack", acc.Attack).
		Dur("duration", finished.Sub(info.StartedAt)).
		Msg("Simulation run finished")

	m.publish(context.WithoutCancel(ctx), events.RunFinished(info))
}

// evictLocked drops the oldest terminal runs beyond the retention limit.
func (m *Manager) evictLocked() {
	for len(m.finished) > m.cfg.RetainedRuns {
		delete(m.runs, m.finished[0])
		m.finished = m.finished[1:]
	}
}

func (m *Manager) publish(ctx context.Context, e *events.Event) {
	if m.publisher == nil {
		return
	}
	if err := m.publisher.Publish(ctx, e); err != nil {
		m.eventLog.LogPublishFailed(ctx, e.EventID, string(e.Type), err)
	}
}

// Get returns the current state of a run.
func (m *Manager) Get(id string) (models.RunInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.runs[id]
	if !ok {
		return models.RunInfo{}, ErrRunNotFound
	}
	return r.info, nil
}

// List returns all retained runs, newest first.
func (m *Manager) List() []models.RunInfo {
	m.mu.RLock()
	out := make([]models.RunInfo, 0, len(m.runs))
	for _, r := range m.runs {
		out = append(out, r.info)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	return out
}

// Records returns a copy of the run log produced so far, in index order.
func (m *Manager) Records(id string) ([]models.PacketRecord, models.RunInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.runs[id]
	if !ok {
		return nil, models.RunInfo{}, ErrRunNotFound
	}
	out := make([]models.PacketRecord, len(r.records))
	copy(out, r.records)
	return out, r.info, nil
}

// Cancel requests cancellation of a running run. Canceling a finished run
// is a no-op.
func (m *Manager) Cancel(id string) (models.RunInfo, error) {
	m.mu.RLock()
	r, ok := m.runs[id]
	m.mu.RUnlock()
	if !ok {
		return models.RunInfo{}, ErrRunNotFound
	}
	r.cancel()
	return m.Get(id)
}

// Wait blocks until the run reaches a terminal status or ctx is done.
func (m *Manager) Wait(ctx context.Context, id string) (models.RunInfo, error) {
	m.mu.RLock()
	r, ok := m.runs[id]
	m.mu.RUnlock()
	if !ok {
		return models.RunInfo{}, ErrRunNotFound
	}

	select {
	case <-r.done:
	case <-ctx.Done():
		return models.RunInfo{}, ctx.Err()
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return r.info, nil
}

// ActiveRuns returns the number of runs currently executing.
func (m *Manager) ActiveRuns() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active
}

// Shutdown cancels every running run and waits for them to finish.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	m.stopped = true
	m.mu.Unlock()

	m.rootCancel()
	m.wg.Wait()
	logging.Info().Msg("Run manager stopped")
}

// Serve blocks until ctx is canceled, then shuts the manager down.
// It implements suture.Service.
func (m *Manager) Serve(ctx context.Context) error {
	<-ctx.Done()
	m.Shutdown()
	return ctx.Err()
}
