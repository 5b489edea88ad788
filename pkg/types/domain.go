package types

import (
	"time"

	"github.com/google/uuid"
)

// ModelType classifies an installed model asset.
type ModelType string

const (
	ModelTypeCheckpoint ModelType = "Checkpoint"
	ModelTypeLoRA       ModelType = "LoRA"
	ModelTypeRefiner    ModelType = "Refiner"
	ModelTypeEmbedding  ModelType = "Embedding"
)

// ModelInfo describes an installed generative-model asset. Records are owned by
// the persistence backend; this layer only caches and displays them.
type ModelInfo struct {
	// Stable identifier assigned by the backend.
	ID string `json:"id"`
	// Human-friendly name.
	Name string `json:"name"`
	// File name of the asset on disk (e.g. juggernautXL_v8.safetensors).
	FileName string `json:"fileName"`
	// Asset kind: Checkpoint, LoRA, Refiner or Embedding.
	Type ModelType `json:"type"`
	// Free-text description.
	Description string `json:"description"`
	// Free-form scope labels (e.g. "SDXL", "anime").
	Scope []string `json:"scope"`
	// Absolute path of the asset on disk, when known.
	Path string `json:"path"`
	// Free-form tags.
	Tags []string `json:"tags"`
	// ISO-8601 timestamps maintained by the backend.
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// ModelUsageInfo reports which presets reference a model.
type ModelUsageInfo struct {
	IsUsed      bool     `json:"isUsed"`
	UsageCount  int      `json:"usageCount"`
	PresetNames []string `json:"presetNames"`
}

// NewModel returns a model record with every field set to its documented
// default. Callers fill in the fields they care about before Create; there is
// no dynamic partial merge.
func NewModel() ModelInfo {
	now := time.Now().UTC().Format(time.RFC3339)
	return ModelInfo{
		ID:        uuid.NewString(),
		Name:      "",
		FileName:  "",
		Type:      ModelTypeCheckpoint,
		Scope:     []string{},
		Tags:      []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
