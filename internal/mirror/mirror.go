package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	obsmetrics "github.com/smallbiznis/printtrack/internal/observability/metrics"
	"go.uber.org/zap"
)

const DefaultInterval = 30 * time.Second

// Mirror keeps a local copy of the server dataset and a queue of writes
// that have not been acknowledged yet. One process owns the cache file.
type Mirror struct {
	mu     sync.Mutex
	cache  *Cache
	state  *State
	api    API
	log    *zap.Logger
	online bool

	metrics  *obsmetrics.Metrics
	interval time.Duration
	now      func() time.Time
}

type Options struct {
	Cache    *Cache
	API      API
	Log      *zap.Logger
	Metrics  *obsmetrics.Metrics
	Interval time.Duration
}

func New(opts Options) (*Mirror, error) {
	state, err := opts.Cache.Load()
	if err != nil {
		return nil, err
	}

	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	return &Mirror{
		cache:    opts.Cache,
		state:    state,
		api:      opts.API,
		log:      log.Named("mirror"),
		metrics:  opts.Metrics,
		interval: interval,
		now:      time.Now,
	}, nil
}

// Online reports the last known server reachability.
func (m *Mirror) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// SetOnline force-sets reachability, for callers that learn about
// connectivity from outside (a browser online event analogue).
func (m *Mirror) SetOnline(online bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.online = online
}

// Snapshot returns a copy of the current state for read access.
func (m *Mirror) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.state
}

// TrySubmit applies a mutation against the server when online, falling
// back to the local pending queue when the server cannot be reached.
// The returned state is confirmed on direct success and pending-local
// when the write was only saved locally.
func (m *Mirror) TrySubmit(ctx context.Context, mut Mutation) (MutationState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if mut.ID == "" {
		mut.ID = uuid.NewString()
	}
	mut.UpdatedAt = m.now().UTC()

	if !m.online {
		return m.queueLocked(mut, "offline")
	}

	mut.State = StateSubmitted
	if err := m.pushLocked(ctx, &mut); err != nil {
		m.online = false
		return m.queueLocked(mut, err.Error())
	}

	mut.State = StateConfirmed
	m.appendHistoryLocked(mut)
	if err := m.refreshLocked(ctx, mut.Collection); err != nil {
		m.log.Warn("refresh after submit failed", zap.Error(err))
	}
	if err := m.cache.Save(m.state); err != nil {
		return mut.State, err
	}
	return mut.State, nil
}

// Reconcile probes the server and, when reachable, pushes pending job
// mutations. Other collections stay queued until submitted directly;
// the sweep covers jobs only. Last write wins, no merge.
func (m *Mirror) Reconcile(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.api.Health(ctx); err != nil {
		m.online = false
		m.log.Debug("health probe failed", zap.Error(err))
		return err
	}
	m.online = true

	swept := 0
	for i := range m.state.Pending {
		mut := &m.state.Pending[i]
		if mut.Collection != "jobs" || mut.State != StatePendingLocal {
			continue
		}

		mut.State = StateSubmitted
		if err := m.pushLocked(ctx, mut); err != nil {
			mut.State = StatePendingLocal
			mut.LastError = err.Error()
			mut.UpdatedAt = m.now().UTC()
			m.metrics.RecordReconcilePush(ctx, "failed")
			m.log.Warn("reconcile push failed",
				zap.String("mutation_id", mut.ID),
				zap.Error(err),
			)
			continue
		}

		m.metrics.RecordReconcilePush(ctx, "confirmed")
		mut.State = StateConfirmed
		mut.LastError = ""
		mut.UpdatedAt = m.now().UTC()
		swept++
	}

	if swept > 0 {
		if err := m.refreshLocked(ctx, "jobs"); err != nil {
			m.log.Warn("refresh after reconcile failed", zap.Error(err))
		}
	}
	m.state.Pending = compactPending(m.state.Pending)
	m.state.LastSync = m.now().UTC()

	if err := m.cache.Save(m.state); err != nil {
		return err
	}

	m.log.Info("reconcile complete",
		zap.Int("swept", swept),
		zap.Int("pending", len(m.state.Pending)),
	)
	return nil
}

// Run reconciles on a fixed cadence until the context is cancelled.
func (m *Mirror) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := m.Reconcile(ctx); err != nil {
				m.log.Debug("reconcile skipped", zap.Error(err))
			}
		}
	}
}

// pushLocked issues the API call for one mutation. Updates that hit a
// missing record fall back to create.
func (m *Mirror) pushLocked(ctx context.Context, mut *Mutation) error {
	switch mut.Op {
	case OpCreate:
		_, err := m.api.Create(ctx, mut.Collection, mut.Payload)
		return err
	case OpUpdate:
		_, err := m.api.Update(ctx, mut.Collection, mut.RecordID, mut.Payload)
		if errors.Is(err, ErrRecordNotFound) {
			_, err = m.api.Create(ctx, mut.Collection, mut.Payload)
		}
		return err
	case OpDelete:
		err := m.api.Delete(ctx, mut.Collection, mut.RecordID)
		if errors.Is(err, ErrRecordNotFound) {
			return nil
		}
		return err
	default:
		return errors.New("mirror: unknown op " + string(mut.Op))
	}
}

func (m *Mirror) queueLocked(mut Mutation, reason string) (MutationState, error) {
	mut.State = StatePendingLocal
	mut.LastError = reason
	m.state.Pending = append(m.state.Pending, mut)
	m.applyLocalLocked(mut)
	m.log.Info("saved locally",
		zap.String("collection", mut.Collection),
		zap.String("op", string(mut.Op)),
	)
	if err := m.cache.Save(m.state); err != nil {
		return mut.State, err
	}
	return mut.State, nil
}

// applyLocalLocked writes a queued mutation into the in-memory copy of
// its collection so reads see the record before the server confirms it.
func (m *Mirror) applyLocalLocked(mut Mutation) {
	items := m.collectionLocked(mut.Collection)
	if items == nil {
		return
	}

	switch mut.Op {
	case OpCreate:
		*items = append(*items, mut.Payload)
	case OpUpdate:
		if mut.RecordID == "" {
			*items = append(*items, mut.Payload)
			return
		}
		for i, item := range *items {
			if recordID(item) == mut.RecordID {
				(*items)[i] = mut.Payload
				return
			}
		}
		*items = append(*items, mut.Payload)
	case OpDelete:
		if mut.RecordID == "" {
			return
		}
		for i, item := range *items {
			if recordID(item) == mut.RecordID {
				*items = append((*items)[:i], (*items)[i+1:]...)
				return
			}
		}
	}
}

func (m *Mirror) collectionLocked(collection string) *[]json.RawMessage {
	switch collection {
	case "jobs":
		return &m.state.Jobs
	case "feedback":
		return &m.state.Feedback
	case "projects":
		return &m.state.Projects
	default:
		return nil
	}
}

func recordID(item json.RawMessage) string {
	var record struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(item, &record); err != nil {
		return ""
	}
	return record.ID
}

func (m *Mirror) appendHistoryLocked(mut Mutation) {
	m.state.Pending = append(m.state.Pending, mut)
	m.state.Pending = compactPending(m.state.Pending)
}

// refreshLocked replaces the local collection with the server's copy.
func (m *Mirror) refreshLocked(ctx context.Context, collection string) error {
	data, err := m.api.List(ctx, collection)
	if err != nil {
		return err
	}

	var listing map[string]json.RawMessage
	if err := json.Unmarshal(data, &listing); err != nil {
		return err
	}

	var items []json.RawMessage
	if raw, ok := listing[collection]; ok {
		if err := json.Unmarshal(raw, &items); err != nil {
			return err
		}
	}

	switch collection {
	case "jobs":
		m.state.Jobs = items
	case "feedback":
		m.state.Feedback = items
	case "projects":
		m.state.Projects = items
	}
	return nil
}

// compactPending drops confirmed entries; conflicts and pending stay.
func compactPending(pending []Mutation) []Mutation {
	out := pending[:0]
	for _, mut := range pending {
		if mut.State == StateConfirmed {
			continue
		}
		out = append(out, mut)
	}
	return out
}

// NextProjectID advances the cached counter and returns a formatted id
// matching the server's allocation scheme. The counter is persisted on
// every allocation so a restart never reissues an id.
func (m *Mirror) NextProjectID() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.ProjectIDCounter++
	if err := m.cache.Save(m.state); err != nil {
		m.state.ProjectIDCounter--
		return "", err
	}
	return fmt.Sprintf("P-%04d", m.state.ProjectIDCounter), nil
}
