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

// PresetStore caches the backend's preset and tag collections and serves
// filtered views. It reads (never writes) the ModelStore to resolve base-model
// references for display.
type PresetStore struct {
	client *backend.Client
	models *ModelStore
	log    zerolog.Logger

	mu      sync.RWMutex
	presets []types.PresetConfig
	tags    []types.Tag
	// current is a display cache, not a source of truth.
	current *types.PresetConfig
	filter  types.FilterOptions
	loading bool
	lastErr string
}

// NewPresetStore builds a store talking to the given backend client. models
// provides base-model display lookups and must outlive the store.
func NewPresetStore(client *backend.Client, models *ModelStore, log zerolog.Logger) *PresetStore {
	return &PresetStore{
		client: client,
		models: models,
		log:    log.With().Str("store", "presets").Logger(),
		filter: types.DefaultFilter(),
	}
}

func (s *PresetStore) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	if v {
		s.lastErr = ""
	}
	s.mu.Unlock()
}

func (s *PresetStore) fail(op string, err error) {
	s.mu.Lock()
	s.lastErr = err.Error()
	s.mu.Unlock()
	s.log.Error().Str("op", op).Err(err).Msg("preset operation failed")
}

// FetchAll replaces the local collection with the backend's full set. On
// failure the collection is left unchanged.
func (s *PresetStore) FetchAll(ctx context.Context) {
	s.setLoading(true)
	defer s.setLoading(false)

	presets, err := s.client.GetAllPresets(ctx)
	if err != nil {
		s.fail("fetch_all", err)
		return
	}
	s.mu.Lock()
	s.presets = presets
	s.mu.Unlock()
}

// FetchByID fetches one record and marks it as the current selection.
func (s *PresetStore) FetchByID(ctx context.Context, id string) *types.PresetConfig {
	s.setLoading(true)
	defer s.setLoading(false)

	p, err := s.client.GetPresetByID(ctx, id)
	if err != nil {
		s.fail("fetch_by_id", err)
		return nil
	}
	s.mu.Lock()
	s.current = p
	s.mu.Unlock()
	return p
}

// Create submits the preset and prepends the backend-confirmed result to the
// collection. Start from types.NewPreset to get documented defaults.
func (s *PresetStore) Create(ctx context.Context, p types.PresetConfig) *types.PresetConfig {
	s.setLoading(true)
	defer s.setLoading(false)

	created, err := s.client.CreatePreset(ctx, p)
	if err != nil {
		s.fail("create", err)
		return nil
	}
	s.mu.Lock()
	s.presets = append([]types.PresetConfig{*created}, s.presets...)
	s.mu.Unlock()
	return created
}

// Update submits the full record and replaces the matching local entry.
func (s *PresetStore) Update(ctx context.Context, p types.PresetConfig) *types.PresetConfig {
	s.setLoading(true)
	defer s.setLoading(false)

	updated, err := s.client.UpdatePreset(ctx, p)
	if err != nil {
		s.fail("update", err)
		return nil
	}
	s.mu.Lock()
	for i := range s.presets {
		if s.presets[i].ID == updated.ID {
			s.presets[i] = *updated
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
func (s *PresetStore) Delete(ctx context.Context, id string) {
	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.client.DeletePreset(ctx, id); err != nil {
		s.fail("delete", err)
		return
	}
	s.mu.Lock()
	kept := s.presets[:0:0]
	for _, p := range s.presets {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.presets = kept
	if s.current != nil && s.current.ID == id {
		s.current = nil
	}
	s.mu.Unlock()
}

// ToggleFavorite flips the flag on the matching local record after the
// backend confirms. Never optimistic.
func (s *PresetStore) ToggleFavorite(ctx context.Context, id string) {
	s.ClearError()
	if err := s.client.ToggleFavorite(ctx, id); err != nil {
		s.fail("toggle_favorite", err)
		return
	}
	s.mu.Lock()
	for i := range s.presets {
		if s.presets[i].ID == id {
			s.presets[i].IsFavorite = !s.presets[i].IsFavorite
			break
		}
	}
	s.mu.Unlock()
}

// IncrementUseCount bumps the local counter by exactly one after the backend
// confirms. The backend owns the authoritative count; success is assumed to
// mean a delta of one.
func (s *PresetStore) IncrementUseCount(ctx context.Context, id string) {
	s.ClearError()
	if err := s.client.IncrementUseCount(ctx, id); err != nil {
		s.fail("increment_use_count", err)
		return
	}
	s.mu.Lock()
	for i := range s.presets {
		if s.presets[i].ID == id {
			s.presets[i].UseCount++
			break
		}
	}
	s.mu.Unlock()
}

// Search is a read-through query; it does not touch the local collection.
func (s *PresetStore) Search(ctx context.Context, query string) []types.PresetConfig {
	s.setLoading(true)
	defer s.setLoading(false)

	presets, err := s.client.SearchPresets(ctx, query)
	if err != nil {
		s.fail("search", err)
		return nil
	}
	return presets
}

// FetchTags replaces the local tag collection.
func (s *PresetStore) FetchTags(ctx context.Context) {
	s.ClearError()
	tags, err := s.client.GetAllTags(ctx)
	if err != nil {
		s.fail("fetch_tags", err)
		return
	}
	s.mu.Lock()
	s.tags = tags
	s.mu.Unlock()
}

// CreateTag creates a tag and appends it locally. Empty color gets the
// default tag color.
func (s *PresetStore) CreateTag(ctx context.Context, name, color string) *types.Tag {
	s.ClearError()
	if color == "" {
		color = types.DefaultTagColor
	}
	tag, err := s.client.CreateTag(ctx, name, color)
	if err != nil {
		s.fail("create_tag", err)
		return nil
	}
	s.mu.Lock()
	s.tags = append(s.tags, *tag)
	s.mu.Unlock()
	return tag
}

// DeleteTag removes the tag locally after the backend confirms.
func (s *PresetStore) DeleteTag(ctx context.Context, id string) {
	s.ClearError()
	if err := s.client.DeleteTag(ctx, id); err != nil {
		s.fail("delete_tag", err)
		return
	}
	s.mu.Lock()
	kept := s.tags[:0:0]
	for _, t := range s.tags {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.tags = kept
	s.mu.Unlock()
}

// Presets returns a copy of the local collection.
func (s *PresetStore) Presets() []types.PresetConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.PresetConfig, len(s.presets))
	copy(out, s.presets)
	return out
}

// Tags returns a copy of the local tag collection.
func (s *PresetStore) Tags() []types.Tag {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Tag, len(s.tags))
	copy(out, s.tags)
	return out
}

// GetByID looks the record up in the local collection.
func (s *PresetStore) GetByID(id string) *types.PresetConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.presets {
		if s.presets[i].ID == id {
			p := s.presets[i]
			return &p
		}
	}
	return nil
}

// Favorites returns the favorite presets in collection order.
func (s *PresetStore) Favorites() []types.PresetConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []types.PresetConfig
	for _, p := range s.presets {
		if p.IsFavorite {
			out = append(out, p)
		}
	}
	return out
}

// BaseModels returns the deduplicated, sorted display names of every base
// model referenced by the collection. Resolvable references display the
// model's file name (or name); unresolved ones fall back to the raw text.
func (s *PresetStore) BaseModels() []string {
	s.mu.RLock()
	presets := make([]types.PresetConfig, len(s.presets))
	copy(presets, s.presets)
	s.mu.RUnlock()

	seen := map[string]struct{}{}
	for _, p := range presets {
		if name := s.baseModelDisplay(p); name != "" {
			seen[name] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// baseModelDisplay resolves a preset's base model to its display label.
func (s *PresetStore) baseModelDisplay(p types.PresetConfig) string {
	if p.Model.BaseModelID != "" {
		if m := s.models.GetByID(p.Model.BaseModelID); m != nil {
			if m.FileName != "" {
				return m.FileName
			}
			return m.Name
		}
	}
	return p.Model.BaseModel
}

// Filtered applies the store's filter state to the collection and returns a
// new, stably sorted slice. The source collection is never mutated.
func (s *PresetStore) Filtered() []types.PresetConfig {
	s.mu.RLock()
	presets := make([]types.PresetConfig, len(s.presets))
	copy(presets, s.presets)
	f := s.filter
	s.mu.RUnlock()

	out := presets[:0:0]
	for _, p := range presets {
		if s.matchesPreset(p, f) {
			out = append(out, p)
		}
	}
	sortPresets(out, f)
	return out
}

func (s *PresetStore) matchesPreset(p types.PresetConfig, f types.FilterOptions) bool {
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) &&
			!anyContainsFold(p.Tags, q) {
			return false
		}
	}
	if len(f.Tags) > 0 {
		hit := false
		for _, t := range f.Tags {
			if containsLabel(p.Tags, t) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	if f.IsFavorite != nil && p.IsFavorite != *f.IsFavorite {
		return false
	}
	if f.BaseModel != "" {
		display := s.baseModelDisplay(p)
		if !strings.Contains(strings.ToLower(display), strings.ToLower(f.BaseModel)) {
			return false
		}
	}
	return true
}

func sortPresets(presets []types.PresetConfig, f types.FilterOptions) {
	desc := f.SortOrder == types.SortDesc
	coll := newCollator()
	sort.SliceStable(presets, func(i, j int) bool {
		var cmp int
		switch f.SortBy {
		case types.SortByName:
			cmp = coll.CompareString(presets[i].Name, presets[j].Name)
		case types.SortByCreatedAt:
			cmp = compareTimestamps(presets[i].CreatedAt, presets[j].CreatedAt)
		case types.SortByUseCount:
			cmp = presets[i].UseCount - presets[j].UseCount
		default:
			cmp = compareTimestamps(presets[i].UpdatedAt, presets[j].UpdatedAt)
		}
		return orderedLess(cmp, desc)
	})
}

// Current returns the cached selection, or nil.
func (s *PresetStore) Current() *types.PresetConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// SetCurrent replaces the cached selection.
func (s *PresetStore) SetCurrent(p *types.PresetConfig) {
	s.mu.Lock()
	s.current = p
	s.mu.Unlock()
}

// Filter returns the store's query state.
func (s *PresetStore) Filter() types.FilterOptions {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// SetFilter replaces the query state. It persists across fetches until
// replaced again.
func (s *PresetStore) SetFilter(f types.FilterOptions) {
	s.mu.Lock()
	s.filter = f
	s.mu.Unlock()
}

// Loading reports whether a backend call is in flight. Advisory only.
func (s *PresetStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the last recorded operation failure, or "".
func (s *PresetStore) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// ClearError resets the recorded failure.
func (s *PresetStore) ClearError() {
	s.mu.Lock()
	s.lastErr = ""
	s.mu.Unlock()
}
