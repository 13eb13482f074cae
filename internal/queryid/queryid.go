// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package queryid maps logical GraphQL operation names to the opaque query
// identifiers the upstream API embeds in its endpoint paths. Identifiers
// change without notice, so every entry can be marked stale after a 404
// and refreshed from the live web bundles.
package queryid

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/pdiddy/chirp/internal/logging"
)

// ErrUnknownOperation is returned when no source knows an operation.
var ErrUnknownOperation = errors.New("unknown GraphQL operation")

// State is the lifecycle of one cache entry.
type State string

const (
	Unresolved State = "unresolved"
	Resolved   State = "resolved"
	Stale      State = "stale"
)

// Source loads a full operation-name to query-id mapping.
type Source interface {
	Load(ctx context.Context) (map[string]string, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (map[string]string, error)

// Load calls f.
func (f SourceFunc) Load(ctx context.Context) (map[string]string, error) { return f(ctx) }

type entry struct {
	id     string
	state  State
	origin string

	// refreshFailed marks a stale entry whose last refresh failed; ID keeps
	// serving it without scraping again until the next Refresh.
	refreshFailed bool
}

// Entry is a read-only view of one cache entry.
type Entry struct {
	Operation string `json:"operation" yaml:"operation"`
	ID        string `json:"id" yaml:"id"`
	State     State  `json:"state" yaml:"state"`
	Origin    string `json:"origin" yaml:"origin"`
}

// Resolver caches query ids for the lifetime of one client. Cache misses
// load the initial mapping; a 404 from the upstream marks the entry stale
// and triggers a full refresh from the remote source. There is no
// background refresh.
type Resolver struct {
	initial Source
	remote  Source
	log     *logging.Logger

	mu            sync.Mutex
	entries       map[string]entry
	initialLoaded bool
}

// New returns a resolver. initial serves cache misses (bundled ids and
// config overrides); remote serves refreshes. remote may be nil, in which
// case refreshes fail.
func New(initial, remote Source, log *logging.Logger) *Resolver {
	return &Resolver{
		initial: initial,
		remote:  remote,
		log:     logging.OrNop(log),
		entries: make(map[string]entry),
	}
}

// ID returns the query id for op, loading the initial mapping on a miss and
// refreshing from the remote source when the entry is stale or unknown to
// the initial mapping.
func (r *Resolver) ID(ctx context.Context, op string) (string, error) {
	r.mu.Lock()
	e, ok := r.entries[op]
	r.mu.Unlock()
	if ok && (e.state == Resolved || e.refreshFailed) {
		return e.id, nil
	}

	if !ok {
		if err := r.loadInitial(ctx); err != nil {
			r.log.Warn("queryid", "initial_load_failed", logging.Fields{"error": err.Error()})
		}
		r.mu.Lock()
		e, ok = r.entries[op]
		r.mu.Unlock()
		if ok && e.state == Resolved {
			return e.id, nil
		}
	}

	id, err := r.refresh(ctx, op)
	if err == nil {
		return id, nil
	}
	if ok && e.id != "" {
		r.log.Warn("queryid", "using_stale_id", logging.Fields{"operation": op, "id": e.id, "error": err.Error()})
		return e.id, nil
	}
	return "", err
}

// Refresh marks op stale, reloads the whole mapping from the remote source
// and returns the new id. Callers use it after an HTTP 404 and retry once.
// When the reload fails, ID serves the stale id from then on without
// reloading.
func (r *Resolver) Refresh(ctx context.Context, op string) (string, error) {
	r.mu.Lock()
	if e, ok := r.entries[op]; ok {
		e.state = Stale
		e.refreshFailed = false
		r.entries[op] = e
	}
	r.mu.Unlock()

	r.log.Info("queryid", "refresh_started", logging.Fields{"operation": op})
	return r.refresh(ctx, op)
}

// RefreshAll reloads the whole mapping from the remote source.
func (r *Resolver) RefreshAll(ctx context.Context) error {
	return r.reloadRemote(ctx)
}

func (r *Resolver) refresh(ctx context.Context, op string) (string, error) {
	if err := r.reloadRemote(ctx); err != nil {
		r.mu.Lock()
		if e, ok := r.entries[op]; ok && e.state == Stale {
			e.refreshFailed = true
			r.entries[op] = e
		}
		r.mu.Unlock()
		return "", err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[op]
	if !ok || e.state != Resolved {
		return "", fmt.Errorf("%w: %s", ErrUnknownOperation, op)
	}
	return e.id, nil
}

func (r *Resolver) reloadRemote(ctx context.Context) error {
	if r.remote == nil {
		return errors.New("no remote query id source configured")
	}
	m, err := r.remote.Load(ctx)
	if err != nil {
		return fmt.Errorf("refreshing query ids: %w", err)
	}
	r.mu.Lock()
	for op, id := range m {
		if id != "" {
			r.entries[op] = entry{id: id, state: Resolved, origin: "remote"}
		}
	}
	r.mu.Unlock()
	r.log.Info("queryid", "refreshed", logging.Fields{"operations": len(m)})
	return nil
}

func (r *Resolver) loadInitial(ctx context.Context) error {
	r.mu.Lock()
	done := r.initialLoaded
	r.mu.Unlock()
	if done || r.initial == nil {
		return nil
	}

	m, err := r.initial.Load(ctx)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.initialLoaded = true
	for op, id := range m {
		if _, exists := r.entries[op]; exists || id == "" {
			continue
		}
		r.entries[op] = entry{id: id, state: Resolved, origin: "bundled"}
	}
	return nil
}

// State reports the lifecycle state of op.
func (r *Resolver) State(op string) State {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[op]; ok {
		return e.state
	}
	return Unresolved
}

// Snapshot lists every cached entry sorted by operation name.
func (r *Resolver) Snapshot(ctx context.Context) []Entry {
	_ = r.loadInitial(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, 0, len(r.entries))
	for op, e := range r.entries {
		out = append(out, Entry{Operation: op, ID: e.id, State: e.state, Origin: e.origin})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Operation < out[j].Operation })
	return out
}
