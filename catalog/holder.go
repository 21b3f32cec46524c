package catalog

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

type Status string

const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

// State is the outcome of the latest load for one owner: ready with a
// catalog, or failed with an error.
type State struct {
	Status   Status
	Catalog  Catalog
	Err      error
	LoadedAt time.Time
}

// Holder keeps the current catalog snapshot per owner and reloads it when it
// is stale, failed, or invalidated by a write. Concurrent loads for the same
// owner share one read.
type Holder struct {
	reader Reader
	ttl    time.Duration
	now    func() time.Time
	group  singleflight.Group

	mu     sync.RWMutex
	states map[uuid.UUID]State
	// gen counts invalidations; a load started under an older gen is not stored.
	gen uint64
}

func NewHolder(r Reader, ttl time.Duration) *Holder {
	return &Holder{
		reader: r,
		ttl:    ttl,
		now:    time.Now,
		states: make(map[uuid.UUID]State),
	}
}

// Get returns the snapshot for ownerID, loading it when needed. The returned
// bool is true when the snapshot came from the cache.
func (h *Holder) Get(ctx context.Context, ownerID uuid.UUID) (State, bool) {
	h.mu.RLock()
	st, ok := h.states[ownerID]
	h.mu.RUnlock()
	if ok && st.Status == StatusReady && (h.ttl <= 0 || h.now().Sub(st.LoadedAt) < h.ttl) {
		return st, true
	}
	return h.Reload(ctx, ownerID), false
}

// Reload loads a fresh snapshot. A failed load replaces whatever was held. A
// load that overlaps an Invalidate is returned to its callers but not kept.
func (h *Holder) Reload(ctx context.Context, ownerID uuid.UUID) State {
	h.mu.Lock()
	gen := h.gen
	if _, ok := h.states[ownerID]; !ok {
		h.states[ownerID] = State{Status: StatusLoading}
	}
	h.mu.Unlock()

	key := ownerID.String() + "/" + strconv.FormatUint(gen, 10)
	v, _, _ := h.group.Do(key, func() (interface{}, error) {
		c, err := LoadCatalog(ctx, h.reader, ownerID)
		st := State{Status: StatusReady, Catalog: c, LoadedAt: h.now()}
		if err != nil {
			st = State{Status: StatusFailed, Err: err, LoadedAt: h.now()}
		}

		h.mu.Lock()
		if h.gen == gen {
			h.states[ownerID] = st
		}
		h.mu.Unlock()
		return st, nil
	})
	return v.(State)
}

// Peek returns the held state without loading.
func (h *Holder) Peek(ownerID uuid.UUID) (State, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	st, ok := h.states[ownerID]
	return st, ok
}

// Invalidate drops every snapshot so the next Get reloads.
func (h *Holder) Invalidate() {
	h.mu.Lock()
	h.gen++
	h.states = make(map[uuid.UUID]State)
	h.mu.Unlock()
}
