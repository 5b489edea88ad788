// Package store holds the in-memory, backend-synchronized registries for
// models, presets and tags. Each store owns its collection and query state;
// every mutating operation delegates to the backend first and touches local
// state only after the command succeeds.
//
// Operations never propagate backend faults to the caller: failures are
// rendered into the store's error state, logged, and the operation returns an
// absent-equivalent result. The collection keeps its last-known-good value.
package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"presetd/internal/backend"
	"presetd/pkg/types"
)

// ModelStore caches the backend's model collection and serves filtered views
// over it.
type ModelStore struct {
	client *backend.Client
	log    zerolog.Logger

	mu     sync.RWMutex
	models []types.ModelInfo
	// current is a display cache of the last fetched/selected record, not a
	// source of truth; the collection wins on any disagreement.
	current *types.ModelInfo
	filter  types.ModelFilterOptions
	loading bool
	lastErr string
}

// NewModelStore builds a store talking to the given backend client.
func NewModelStore(client *backend.Client, log zerolog.Logger) *ModelStore {
	return &ModelStore{
		client: client,
		log:    log.With().Str("store", "models").Logger(),
		filter: types.DefaultModelFilter(),
	}
}

func (s *ModelStore) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	if v {
		s.lastErr = ""
	}
	s.mu.Unlock()
}

func (s *ModelStore) fail(op string, err error) {
	s.mu.Lock()
	s.lastErr = err.Error()
	s.mu.Unlock()
	s.log.Error().Str("op", op).Err(err).Msg("model operation failed")
}

// FetchAll replaces the local collection with the backend's full set. On
// failure the collection is left unchanged.
func (s *ModelStore) FetchAll(ctx context.Context) {
	s.setLoading(true)
	defer s.setLoading(false)

	models, err := s.client.GetAllModels(ctx)
	if err != nil {
		s.fail("fetch_all", err)
		return
	}
	s.mu.Lock()
	s.models = models
	s.mu.Unlock()
}

// FetchByType is a read-through query; it does not touch the local collection.
func (s *ModelStore) FetchByType(ctx context.Context, t types.ModelType) []types.ModelInfo {
	s.setLoading(true)
	defer s.setLoading(false)

	models, err := s.client.GetModelsByType(ctx, t)
	if err != nil {
		s.fail("fetch_by_type", err)
		return nil
	}
	return models
}

// FetchByID fetches one record and marks it as the current selection.
// Returns nil when the record is absent or the command fails.
func (s *ModelStore) FetchByID(ctx context.Context, id string) *types.ModelInfo {
	s.setLoading(true)
	defer s.setLoading(false)

	m, err := s.client.GetModelByID(ctx, id)
	if err != nil {
		s.fail("fetch_by_id", err)
		return nil
	}
	s.mu.Lock()
	s.current = m
	s.mu.Unlock()
	return m
}

// Create submits the record and prepends the backend-assigned result to the
// collection. Start from types.NewModel to get documented defaults.
func (s *ModelStore) Create(ctx context.Context, m types.ModelInfo) *types.ModelInfo {
	s.setLoading(true)
	defer s.setLoading(false)

	created, err := s.client.CreateModel(ctx, m)
	if err != nil {
		s.fail("create", err)
		return nil
	}
	s.mu.Lock()
	s.models = append([]types.ModelInfo{*created}, s.models...)
	s.mu.Unlock()
	return created
}

// Update submits the full record and replaces the matching local entry.
func (s *ModelStore) Update(ctx context.Context, m types.ModelInfo) *types.ModelInfo {
	s.setLoading(true)
	defer s.setLoading(false)

	updated, err := s.client.UpdateModel(ctx, m)
	if err != nil {
		s.fail("update", err)
		return nil
	}
	s.mu.Lock()
	for i := range s.models {
		if s.models[i].ID == updated.ID {
			s.models[i] = *updated
			break
		}
	}
	if s.current != nil && s.current.ID == updated.ID {
		s.current = updated
	}
	s.mu.Unlock()
	return updated
}

// Delete removes the record locally after the backend confirms.
func (s *ModelStore) Delete(ctx context.Context, id string) {
	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.client.DeleteModel(ctx, id); err != nil {
		s.fail("delete", err)
		return
	}
	s.mu.Lock()
	kept := s.models[:0:0]
	for _, m := range s.models {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	s.models = kept
	if s.current != nil && s.current.ID == id {
		s.current = nil
	}
	s.mu.Unlock()
}

// Search is a read-through query; it does not touch the local collection.
func (s *ModelStore) Search(ctx context.Context, query string) []types.ModelInfo {
	s.setLoading(true)
	defer s.setLoading(false)

	models, err := s.client.SearchModels(ctx, query)
	if err != nil {
		s.fail("search", err)
		return nil
	}
	return models
}

// CheckUsage reports which presets reference the model. Lightweight: no
// loading flag, no stored error; failures degrade to nil.
func (s *ModelStore) CheckUsage(ctx context.Context, modelID string) *types.ModelUsageInfo {
	usage, err := s.client.CheckModelUsage(ctx, modelID)
	if err != nil {
		s.log.Warn().Str("model_id", modelID).Err(err).Msg("usage check failed")
		return nil
	}
	return usage
}

// Models returns a copy of the local collection.
func (s *ModelStore) Models() []types.ModelInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.ModelInfo, len(s.models))
	copy(out, s.models)
	return out
}

// GetByID looks the record up in the local collection.
func (s *ModelStore) GetByID(id string) *types.ModelInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.models {
		if s.models[i].ID == id {
			m := s.models[i]
			return &m
		}
	}
	return nil
}

// ByType returns the cached records of one type, in collection order.
func (s *ModelStore) ByType(t types.ModelType) []types.ModelInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []types.ModelInfo
	for _, m := range s.models {
		if m.Type == t {
			out = append(out, m)
		}
	}
	return out
}

func (s *ModelStore) Checkpoints() []types.ModelInfo { return s.ByType(types.ModelTypeCheckpoint) }
func (s *ModelStore) LoRAs() []types.ModelInfo       { return s.ByType(types.ModelTypeLoRA) }
func (s *ModelStore) Refiners() []types.ModelInfo    { return s.ByType(types.ModelTypeRefiner) }
func (s *ModelStore) Embeddings() []types.ModelInfo  { return s.ByType(types.ModelTypeEmbedding) }

// AllTags enumerates every tag and scope label across the collection,
// deduplicated and sorted.
func (s *ModelStore) AllTags() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := map[string]struct{}{}
	for _, m := range s.models {
		for _, t := range m.Tags {
			seen[t] = struct{}{}
		}
		for _, sc := range m.Scope {
			seen[sc] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// ScopeTags enumerates the scope labels only, deduplicated and sorted.
func (s *ModelStore) ScopeTags() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := map[string]struct{}{}
	for _, m := range s.models {
		for _, sc := range m.Scope {
			seen[sc] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// Filtered applies the store's filter state to the collection and returns a
// new, stably sorted slice. The source collection is never mutated.
func (s *ModelStore) Filtered() []types.ModelInfo {
	s.mu.RLock()
	models := make([]types.ModelInfo, len(s.models))
	copy(models, s.models)
	f := s.filter
	s.mu.RUnlock()

	out := models[:0:0]
	for _, m := range models {
		if matchesModel(m, f) {
			out = append(out, m)
		}
	}
	sortModels(out, f)
	return out
}

func matchesModel(m types.ModelInfo, f types.ModelFilterOptions) bool {
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(m.Name), q) &&
			!strings.Contains(strings.ToLower(m.Description), q) &&
			!anyContainsFold(m.Scope, q) &&
			!anyContainsFold(m.Tags, q) {
			return false
		}
	}
	if f.Type != "" && m.Type != f.Type {
		return false
	}
	if len(f.Tags) > 0 {
		hit := false
		for _, t := range f.Tags {
			if containsLabel(m.Tags, t) || containsLabel(m.Scope, t) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

func anyContainsFold(labels []string, loweredQuery string) bool {
	for _, s := range labels {
		if strings.Contains(strings.ToLower(s), loweredQuery) {
			return true
		}
	}
	return false
}

func sortModels(models []types.ModelInfo, f types.ModelFilterOptions) {
	desc := f.SortOrder == types.SortDesc
	coll := newCollator()
	sort.SliceStable(models, func(i, j int) bool {
		var cmp int
		switch f.SortBy {
		case types.SortByName:
			cmp = coll.CompareString(models[i].Name, models[j].Name)
		case types.SortByCreatedAt:
			cmp = compareTimestamps(models[i].CreatedAt, models[j].CreatedAt)
		default:
			cmp = compareTimestamps(models[i].UpdatedAt, models[j].UpdatedAt)
		}
		return orderedLess(cmp, desc)
	})
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Current returns the cached selection, or nil.
func (s *ModelStore) Current() *types.ModelInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// SetCurrent replaces the cached selection.
func (s *ModelStore) SetCurrent(m *types.ModelInfo) {
	s.mu.Lock()
	s.current = m
	s.mu.Unlock()
}

// Filter returns the store's query state.
func (s *ModelStore) Filter() types.ModelFilterOptions {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// SetFilter replaces the query state. It persists across fetches until
// replaced again.
func (s *ModelStore) SetFilter(f types.ModelFilterOptions) {
	s.mu.Lock()
	s.filter = f
	s.mu.Unlock()
}

// Loading reports whether a backend call is in flight. Advisory UI state
// only; concurrent operations may race on it.
func (s *ModelStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the last recorded operation failure, or "".
func (s *ModelStore) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// ClearError resets the recorded failure.
func (s *ModelStore) ClearError() {
	s.mu.Lock()
	s.lastErr = ""
	s.mu.Unlock()
}
