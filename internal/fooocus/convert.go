package fooocus

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"presetd/pkg/types"
)

// Sentinel for the overwrite fields: the preset does not override them.
const notOverridden = -1

// exportCfgTSNR is always written; the internal model has no equivalent.
const exportCfgTSNR = 7

// Export maps an internal preset onto the Fooocus flat schema. The LoRA list
// keeps its order; overwrite fields are always -1 regardless of input.
func Export(p types.PresetConfig) Preset {
	loras := make([]LoRATuple, 0, len(p.Model.LoRAs))
	for _, l := range p.Model.LoRAs {
		loras = append(loras, LoRATuple{Name: l.Name, ModelName: l.ModelName, Weight: l.Weight})
	}
	out := Preset{
		DefaultModel:         p.Model.BaseModel,
		DefaultRefinerModel:  p.Model.RefinerModel,
		DefaultRefinerSwitch: p.Model.RefinerSwitch,
		DefaultLoRAs:         loras,

		DefaultCfgScale:        p.Sampling.CfgScale,
		DefaultSampleSharpness: p.Sampling.SampleSharpness,
		DefaultSampler:         p.Sampling.Sampler,
		DefaultScheduler:       p.Sampling.Scheduler,
		DefaultPerformance:     string(p.Sampling.Performance),
		DefaultSteps:           p.Sampling.Steps,

		DefaultPromptNegative: p.Prompt.Negative,
		DefaultPromptPositive: p.Prompt.Positive,
		DefaultStyles:         p.Prompt.Styles,
		DefaultAspectRatio:    p.Image.AspectRatio,

		DefaultOverwriteStep:   notOverridden,
		DefaultOverwriteSwitch: notOverridden,
		DefaultOverwriteWidth:  notOverridden,
		DefaultOverwriteHeight: notOverridden,
		DefaultCfgTSNR:         exportCfgTSNR,

		DefaultNegativePrompt: p.Prompt.Negative,
		DefaultPositivePrompt: p.Prompt.Positive,
	}
	if p.Resources != nil {
		out.CheckpointDownloads = p.Resources.CheckpointDownloads
		out.LoRADownloads = p.Resources.LoRADownloads
		out.EmbeddingDownloads = p.Resources.EmbeddingDownloads
	}
	return out
}

// Import builds an internal preset from a Fooocus record. Absent or falsy
// scalars get the documented defaults; a fresh id is generated and both
// timestamps are set to the conversion instant. name defaults to the record's
// base-model identifier.
func Import(fp Preset, name string) types.PresetConfig {
	now := time.Now().UTC().Format(time.RFC3339)

	loras := make([]types.LoRA, 0, len(fp.DefaultLoRAs))
	for _, t := range fp.DefaultLoRAs {
		loras = append(loras, types.LoRA{Name: t.Name, ModelName: t.ModelName, Weight: t.Weight})
	}
	if name == "" {
		name = fp.DefaultModel
	}
	if name == "" {
		name = "Imported preset"
	}

	p := types.PresetConfig{
		ID:          uuid.NewString(),
		Name:        name,
		Description: fmt.Sprintf("Imported from Fooocus preset - %s", fp.DefaultModel),
		Tags:        []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
		Model: types.ModelConfig{
			BaseModel:     fp.DefaultModel,
			RefinerModel:  fp.DefaultRefinerModel,
			RefinerSwitch: orFloat(fp.DefaultRefinerSwitch, types.DefaultRefinerSwitch),
			LoRAs:         loras,
		},
		Sampling: types.SamplingConfig{
			CfgScale:        orFloat(fp.DefaultCfgScale, types.DefaultCfgScale),
			SampleSharpness: orFloat(fp.DefaultSampleSharpness, types.DefaultSampleSharpness),
			Sampler:         orString(fp.DefaultSampler, types.DefaultSampler),
			Scheduler:       orString(fp.DefaultScheduler, types.DefaultScheduler),
			Performance:     types.PerformanceMode(orString(fp.DefaultPerformance, string(types.PerformanceSpeed))),
			Steps:           orInt(fp.DefaultSteps, types.DefaultSteps),
		},
		Prompt: types.PromptConfig{
			Positive: orString(fp.DefaultPromptPositive, fp.DefaultPositivePrompt),
			Negative: orString(fp.DefaultPromptNegative, fp.DefaultNegativePrompt),
			Styles:   orStyles(fp.DefaultStyles),
		},
		Image: types.ImageConfig{
			AspectRatio: orString(fp.DefaultAspectRatio, types.DefaultAspectRatio),
			// The Fooocus format carries no image count; fixed at the default.
			ImageCount: types.DefaultImageCount,
		},
	}
	if fp.CheckpointDownloads != nil || fp.LoRADownloads != nil || fp.EmbeddingDownloads != nil {
		p.Resources = &types.ResourceDownloads{
			CheckpointDownloads: fp.CheckpointDownloads,
			LoRADownloads:       fp.LoRADownloads,
			EmbeddingDownloads:  fp.EmbeddingDownloads,
		}
	}
	return p
}

// Parse deserializes a Fooocus preset file and imports it. Malformed JSON and
// malformed LoRA tuples are hard failures for the caller to surface; import
// is typically a direct user action.
func Parse(data []byte) (types.PresetConfig, error) {
	var fp Preset
	if err := json.Unmarshal(data, &fp); err != nil {
		return types.PresetConfig{}, fmt.Errorf("parse fooocus preset: %w", err)
	}
	return Import(fp, ""), nil
}

// ExportFileName suggests a download filename for a preset export.
func ExportFileName(p types.PresetConfig) string {
	if p.Name == "" {
		return "preset.json"
	}
	return p.Name + ".json"
}

func orString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func orFloat(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

func orInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func orStyles(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
