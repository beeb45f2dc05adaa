package module

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go-chms/internal/common/models"
	"go-chms/internal/storage"

	"go.uber.org/zap"
)

type State string

const (
	StateUninitialized State = "UNINITIALIZED"
	StateLoading       State = "LOADING"
	StateLoaded        State = "LOADED"
	StateFallback      State = "FALLBACK"
)

// Registry owns the module list of the current session and its durable mirror.
// Changes are applied only after the server confirms them.
type Registry struct {
	repo   ModuleRepository
	store  storage.Store
	logger *zap.Logger

	refreshMu sync.Mutex

	mu      sync.RWMutex
	modules []models.Module
	state   State
	lastErr string

	subsMu  sync.Mutex
	subs    map[int]chan []models.Module
	nextSub int
}

func NewRegistry(repo ModuleRepository, store storage.Store, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		repo:   repo,
		store:  store,
		logger: logger,
		state:  StateUninitialized,
		subs:   make(map[int]chan []models.Module),
	}
}

// Modules returns a copy of the current list.
func (r *Registry) Modules() []models.Module {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return models.CloneModules(r.modules)
}

func (r *Registry) Loading() bool {
	return r.State() == StateLoading
}

// LastError is the message of the last failed mutation, or "" when there is none.
func (r *Registry) LastError() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastErr
}

func (r *Registry) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

func (r *Registry) IsModuleEnabled(id models.ModuleID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.modules {
		if m.ID == id {
			return m.Enabled
		}
	}
	return false
}

func (r *Registry) GetEnabledModules() []models.Module {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.Module
	for _, m := range r.modules {
		if m.Enabled {
			out = append(out, m.Clone())
		}
	}
	return out
}

// Refresh fetches the module list. Refresh, UpdateModule and UpdateModules
// run one at a time, so a fetch never overwrites a confirmed update. On failure, or when the server returns no
// modules, it falls back to the durable mirror and then to DefaultModules,
// leaving the registry in FALLBACK with no error recorded. The fetch error is
// still returned so callers can log it.
func (r *Registry) Refresh(ctx context.Context) error {
	r.refreshMu.Lock()
	defer r.refreshMu.Unlock()

	r.mu.Lock()
	r.state = StateLoading
	r.mu.Unlock()

	fetched, err := r.repo.ListModules(ctx)
	if err == nil && len(fetched) == 0 {
		err = errors.New("server returned an empty module list")
	}

	if err != nil {
		r.logger.Warn("Module fetch failed, using fallback", zap.Error(err))
		fallback, source := r.loadFallback(ctx)

		r.mu.Lock()
		r.modules = fallback
		r.state = StateFallback
		r.lastErr = ""
		snapshot := models.CloneModules(r.modules)
		r.mu.Unlock()

		r.logger.Info("Module registry in fallback", zap.String("source", source), zap.Int("modules", len(fallback)))
		r.publish(snapshot)
		return fmt.Errorf("failed to fetch modules: %w", err)
	}

	r.mu.Lock()
	r.modules = models.CloneModules(fetched)
	r.state = StateLoaded
	r.lastErr = ""
	snapshot := models.CloneModules(r.modules)
	r.mu.Unlock()

	r.mirror(ctx, snapshot)
	r.publish(snapshot)
	return nil
}

func (r *Registry) loadFallback(ctx context.Context) ([]models.Module, string) {
	raw, err := r.store.Get(ctx, storage.KeyModules)
	if err == nil {
		var mirrored []models.Module
		if jerr := json.Unmarshal(raw, &mirrored); jerr == nil && len(mirrored) > 0 {
			return mirrored, "mirror"
		}
		r.logger.Warn("Ignoring unreadable module mirror")
	} else if !errors.Is(err, storage.ErrNotFound) {
		r.logger.Warn("Failed to read module mirror", zap.Error(err))
	}
	return DefaultModules(), "defaults"
}

func (r *Registry) mirror(ctx context.Context, modules []models.Module) {
	if err := WriteMirror(ctx, r.store, modules); err != nil {
		r.logger.Warn("Failed to write module mirror", zap.Error(err))
	}
}

// WriteMirror stores modules under the modules key, the list Refresh falls
// back to when the server is unreachable.
func WriteMirror(ctx context.Context, store storage.Store, modules []models.Module) error {
	raw, err := json.Marshal(modules)
	if err != nil {
		return fmt.Errorf("failed to encode module mirror: %w", err)
	}
	return store.Set(ctx, storage.KeyModules, raw)
}

// UpdateModule asks the server to toggle one module and merges the confirmed
// module into local state. On failure local state is untouched.
func (r *Registry) UpdateModule(ctx context.Context, id models.ModuleID, enabled bool) error {
	r.refreshMu.Lock()
	defer r.refreshMu.Unlock()

	updated, err := r.repo.UpdateModule(ctx, id, enabled)
	if err == nil && updated == nil {
		err = fmt.Errorf("server did not return module %s", id)
	}
	if err != nil {
		r.logger.Error("Failed to update module", zap.String("module_id", string(id)), zap.Error(err))
		r.setError(err)
		return err
	}

	r.mu.Lock()
	merged := false
	for i := range r.modules {
		if r.modules[i].ID == updated.ID {
			r.modules[i] = updated.Clone()
			merged = true
			break
		}
	}
	if !merged {
		r.modules = append(r.modules, updated.Clone())
	}
	r.lastErr = ""
	snapshot := models.CloneModules(r.modules)
	r.mu.Unlock()

	r.mirror(ctx, snapshot)
	r.publish(snapshot)
	return nil
}

// UpdateModules sends a bulk update and, once acknowledged, replaces the
// local list wholesale with the caller's list. The server's echo is not
// reconciled against it.
func (r *Registry) UpdateModules(ctx context.Context, modules []models.Module) error {
	r.refreshMu.Lock()
	defer r.refreshMu.Unlock()

	updates := make([]ModuleUpdate, len(modules))
	for i, m := range modules {
		updates[i] = ModuleUpdate{ID: m.ID, Enabled: m.Enabled}
	}

	if err := r.repo.UpdateModules(ctx, updates); err != nil {
		r.logger.Error("Failed to update modules", zap.Int("count", len(modules)), zap.Error(err))
		r.setError(err)
		return err
	}

	r.mu.Lock()
	r.modules = models.CloneModules(modules)
	r.lastErr = ""
	snapshot := models.CloneModules(r.modules)
	r.mu.Unlock()

	r.mirror(ctx, snapshot)
	r.publish(snapshot)
	return nil
}

func (r *Registry) setError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastErr = err.Error()
}

// Subscribe returns a channel receiving the module list after every change.
// Only the latest snapshot is kept for slow readers.
func (r *Registry) Subscribe() (<-chan []models.Module, func()) {
	r.subsMu.Lock()
	defer r.subsMu.Unlock()

	id := r.nextSub
	r.nextSub++
	ch := make(chan []models.Module, 1)
	r.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			r.subsMu.Lock()
			defer r.subsMu.Unlock()
			delete(r.subs, id)
			close(ch)
		})
	}
}

func (r *Registry) publish(snapshot []models.Module) {
	r.subsMu.Lock()
	defer r.subsMu.Unlock()

	for _, ch := range r.subs {
		select {
		case <-ch:
		default:
		}
		ch <- models.CloneModules(snapshot)
	}
}
