package store

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"presetd/internal/backend"
	"presetd/pkg/types"
)

// fakeInvoker is an in-memory stand-in for the persistence backend. Commands
// listed in fail return their error without touching the fake's data.
type fakeInvoker struct {
	mu      sync.Mutex
	models  []types.ModelInfo
	presets []types.PresetConfig
	tags    []types.Tag
	fail    map[string]error
	calls   []string
}

func (f *fakeInvoker) Invoke(ctx context.Context, command string, args any, reply any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, command)
	if err := f.fail[command]; err != nil {
		return err
	}

	var in map[string]json.RawMessage
	if args != nil {
		b, err := json.Marshal(args)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(b, &in); err != nil {
			return err
		}
	}
	str := func(key string) string {
		var s string
		_ = json.Unmarshal(in[key], &s)
		return s
	}

	switch command {
	case "get_all_models":
		return respond(reply, f.models)
	case "get_models_by_type":
		var out []types.ModelInfo
		for _, m := range f.models {
			if string(m.Type) == str("modelType") {
				out = append(out, m)
			}
		}
		return respond(reply, out)
	case "get_model_by_id":
		for _, m := range f.models {
			if m.ID == str("id") {
				return respond(reply, m)
			}
		}
		return respond(reply, nil)
	case "create_model":
		var m types.ModelInfo
		if err := json.Unmarshal(in["model"], &m); err != nil {
			return err
		}
		return respond(reply, m)
	case "update_model":
		var m types.ModelInfo
		if err := json.Unmarshal(in["model"], &m); err != nil {
			return err
		}
		m.UpdatedAt = "2025-06-01T00:00:00Z"
		return respond(reply, m)
	case "delete_model", "delete_preset", "delete_tag", "toggle_favorite", "increment_use_count":
		return nil
	case "search_models":
		var out []types.ModelInfo
		for _, m := range f.models {
			if strings.Contains(strings.ToLower(m.Name), strings.ToLower(str("query"))) {
				out = append(out, m)
			}
		}
		return respond(reply, out)
	case "check_model_usage":
		var names []string
		for _, p := range f.presets {
			if p.Model.BaseModelID == str("modelId") {
				names = append(names, p.Name)
			}
		}
		return respond(reply, types.ModelUsageInfo{IsUsed: len(names) > 0, UsageCount: len(names), PresetNames: names})
	case "get_all_presets":
		return respond(reply, f.presets)
	case "get_preset_by_id":
		for _, p := range f.presets {
			if p.ID == str("id") {
				return respond(reply, p)
			}
		}
		return respond(reply, nil)
	case "create_preset":
		var p types.PresetConfig
		if err := json.Unmarshal(in["preset"], &p); err != nil {
			return err
		}
		return respond(reply, p)
	case "update_preset":
		var p types.PresetConfig
		if err := json.Unmarshal(in["preset"], &p); err != nil {
			return err
		}
		p.UpdatedAt = "2025-06-01T00:00:00Z"
		return respond(reply, p)
	case "search_presets":
		var out []types.PresetConfig
		for _, p := range f.presets {
			if strings.Contains(strings.ToLower(p.Name), strings.ToLower(str("query"))) {
				out = append(out, p)
			}
		}
		return respond(reply, out)
	case "get_all_tags":
		return respond(reply, f.tags)
	case "create_tag":
		return respond(reply, types.Tag{ID: "tag-" + str("name"), Name: str("name"), Color: str("color")})
	default:
		return errors.New("unknown command: " + command)
	}
}

func respond(reply any, v any) error {
	if reply == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, reply)
}

func newTestStores(t *testing.T, inv *fakeInvoker) (*ModelStore, *PresetStore) {
	t.Helper()
	client := backend.NewClient(inv)
	models := NewModelStore(client, zerolog.Nop())
	presets := NewPresetStore(client, models, zerolog.Nop())
	return models, presets
}

func model(id, name string, typ types.ModelType, updatedAt string) types.ModelInfo {
	return types.ModelInfo{
		ID: id, Name: name, Type: typ,
		Scope: []string{}, Tags: []string{},
		CreatedAt: updatedAt, UpdatedAt: updatedAt,
	}
}

func preset(id, name, updatedAt string) types.PresetConfig {
	p := types.NewPreset()
	p.ID = id
	p.Name = name
	p.CreatedAt = updatedAt
	p.UpdatedAt = updatedAt
	return p
}
