// Package fooocus converts between the internal preset representation and
// the flat preset-file format of the Fooocus image generator. Pure functions,
// no I/O; writing the produced JSON to disk is the caller's business.
package fooocus

import (
	"encoding/json"
	"fmt"
)

// LoRATuple is one entry of default_loras: a positional
// [name, modelName, weight] triple. Order is significant on reimport.
type LoRATuple struct {
	Name      string
	ModelName string
	Weight    float64
}

func (t LoRATuple) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{t.Name, t.ModelName, t.Weight})
}

// UnmarshalJSON rejects tuples of the wrong arity instead of coercing them.
func (t *LoRATuple) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("lora entry: %w", err)
	}
	if len(raw) != 3 {
		return fmt.Errorf("lora entry: want 3 elements, got %d", len(raw))
	}
	if err := json.Unmarshal(raw[0], &t.Name); err != nil {
		return fmt.Errorf("lora name: %w", err)
	}
	if err := json.Unmarshal(raw[1], &t.ModelName); err != nil {
		return fmt.Errorf("lora model name: %w", err)
	}
	if err := json.Unmarshal(raw[2], &t.Weight); err != nil {
		return fmt.Errorf("lora weight: %w", err)
	}
	return nil
}

// Preset is the flat key set of a Fooocus preset file. The duplicated prompt
// keys (default_prompt_positive / default_positive_prompt and the negative
// pair) exist for older Fooocus readers and are always written together.
type Preset struct {
	DefaultModel         string      `json:"default_model"`
	DefaultRefinerModel  string      `json:"default_refiner_model"`
	DefaultRefinerSwitch float64     `json:"default_refiner_switch"`
	DefaultLoRAs         []LoRATuple `json:"default_loras"`

	DefaultCfgScale        float64 `json:"default_cfg_scale"`
	DefaultSampleSharpness float64 `json:"default_sample_sharpness"`
	DefaultSampler         string  `json:"default_sampler"`
	DefaultScheduler       string  `json:"default_scheduler"`
	DefaultPerformance     string  `json:"default_performance"`
	DefaultSteps           int     `json:"default_steps"`

	DefaultPromptNegative string   `json:"default_prompt_negative"`
	DefaultPromptPositive string   `json:"default_prompt_positive"`
	DefaultStyles         []string `json:"default_styles"`
	DefaultAspectRatio    string   `json:"default_aspect_ratio"`

	// Overwrite fields have no internal equivalent; exported as -1 ("not
	// overridden"). DefaultCfgTSNR is the fixed constant 7.
	DefaultOverwriteStep   int     `json:"default_overwrite_step"`
	DefaultOverwriteSwitch int     `json:"default_overwrite_switch"`
	DefaultOverwriteWidth  int     `json:"default_overwrite_width"`
	DefaultOverwriteHeight int     `json:"default_overwrite_height"`
	DefaultCfgTSNR         float64 `json:"default_cfg_tsnr"`

	// Legacy duplicates of the prompt keys.
	DefaultNegativePrompt string `json:"default_negative_prompt"`
	DefaultPositivePrompt string `json:"default_positive_prompt"`

	// Optional download maps; absent maps stay absent.
	CheckpointDownloads map[string]string `json:"checkpoint_downloads,omitempty"`
	LoRADownloads       map[string]string `json:"lora_downloads,omitempty"`
	EmbeddingDownloads  map[string]string `json:"embedding_downloads,omitempty"`
}
