package types

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestNewPresetDefaults(t *testing.T) {
	p := NewPreset()
	if p.ID == "" {
		t.Fatalf("missing id")
	}
	if p.CreatedAt != p.UpdatedAt {
		t.Fatalf("timestamps should match at creation")
	}
	if _, err := time.Parse(time.RFC3339, p.CreatedAt); err != nil {
		t.Fatalf("createdAt not RFC3339: %v", err)
	}
	if p.Model.RefinerSwitch != DefaultRefinerSwitch {
		t.Fatalf("refinerSwitch = %v", p.Model.RefinerSwitch)
	}
	if p.Sampling.CfgScale != DefaultCfgScale || p.Sampling.Steps != DefaultSteps {
		t.Fatalf("sampling defaults: %+v", p.Sampling)
	}
	if p.Sampling.Sampler != DefaultSampler || p.Sampling.Scheduler != DefaultScheduler {
		t.Fatalf("sampler defaults: %+v", p.Sampling)
	}
	if p.Image.AspectRatio != DefaultAspectRatio || p.Image.ImageCount != DefaultImageCount {
		t.Fatalf("image defaults: %+v", p.Image)
	}
	if p.Tags == nil || p.Model.LoRAs == nil || p.Prompt.Styles == nil {
		t.Fatalf("collections must be non-nil so they encode as [] not null")
	}
}

func TestNewModelDefaults(t *testing.T) {
	m := NewModel()
	if m.ID == "" || m.Type != ModelTypeCheckpoint {
		t.Fatalf("unexpected model: %+v", m)
	}
	if m.CreatedAt != m.UpdatedAt {
		t.Fatalf("timestamps should match at creation")
	}
	if m.Scope == nil || m.Tags == nil {
		t.Fatalf("collections must be non-nil")
	}
}

func TestPresetJSONUsesCamelCase(t *testing.T) {
	b, err := json.Marshal(NewPreset())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	for _, key := range []string{`"isFavorite"`, `"useCount"`, `"createdAt"`, `"updatedAt"`, `"cfgScale"`, `"refinerSwitch"`, `"aspectRatio"`, `"imageCount"`} {
		if !strings.Contains(s, key) {
			t.Fatalf("missing wire key %s in %s", key, s)
		}
	}
	if strings.Contains(s, `"resources"`) {
		t.Fatalf("nil resources must be omitted")
	}
}

func TestDefaultFilterSortsRecentFirst(t *testing.T) {
	f := DefaultFilter()
	if f.SortBy != SortByUpdatedAt || f.SortOrder != SortDesc {
		t.Fatalf("default filter: %+v", f)
	}
	if f.IsFavorite != nil {
		t.Fatalf("favorite stage must start unset")
	}
	mf := DefaultModelFilter()
	if mf.SortBy != SortByUpdatedAt || mf.SortOrder != SortDesc {
		t.Fatalf("default model filter: %+v", mf)
	}
}
