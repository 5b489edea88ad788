package types

import (
	"time"

	"github.com/google/uuid"
)

// LoRA is one entry of a preset's ordered LoRA stack. Order matters: the
// Fooocus file format stores these positionally.
type LoRA struct {
	Name      string  `json:"name"`
	ModelName string  `json:"modelName"`
	Weight    float64 `json:"weight"`
}

// ModelConfig selects the models a preset generates with.
type ModelConfig struct {
	// Display name or file name of the base checkpoint.
	BaseModel string `json:"baseModel"`
	// Optional reference into the model registry. The preset stays valid if
	// the reference does not resolve; BaseModel is the fallback text.
	BaseModelID  string  `json:"baseModelId,omitempty"`
	RefinerModel string  `json:"refinerModel"`
	// Fraction of the sampling steps after which the refiner takes over.
	RefinerSwitch float64 `json:"refinerSwitch"`
	LoRAs         []LoRA  `json:"loras"`
}

// PerformanceMode is one of the Fooocus performance profiles.
type PerformanceMode string

const (
	PerformanceSpeed     PerformanceMode = "Speed"
	PerformanceQuality   PerformanceMode = "Quality"
	PerformanceLightning PerformanceMode = "Lightning"
)

// SamplingConfig holds the sampler parameters of a preset.
type SamplingConfig struct {
	CfgScale        float64         `json:"cfgScale"`
	SampleSharpness float64         `json:"sampleSharpness"`
	Sampler         string          `json:"sampler"`
	Scheduler       string          `json:"scheduler"`
	Performance     PerformanceMode `json:"performance"`
	Steps           int             `json:"steps"`
}

// PromptConfig holds the prompt text and style selection of a preset.
type PromptConfig struct {
	Positive string   `json:"positive"`
	Negative string   `json:"negative"`
	Styles   []string `json:"styles"`
}

// ImageConfig holds output settings. AspectRatio is encoded "width*height".
type ImageConfig struct {
	AspectRatio string `json:"aspectRatio"`
	ImageCount  int    `json:"imageCount"`
}

// ResourceDownloads maps display labels to download URLs for the assets a
// preset needs. Absent maps stay absent; they are never coerced to empty maps.
type ResourceDownloads struct {
	CheckpointDownloads map[string]string `json:"checkpointDownloads,omitempty"`
	LoRADownloads       map[string]string `json:"loraDownloads,omitempty"`
	EmbeddingDownloads  map[string]string `json:"embeddingDownloads,omitempty"`
}

// PresetConfig is a named, reusable bundle of generation parameters.
type PresetConfig struct {
	// Immutable identity key, generated client-side at creation time.
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	IsFavorite  bool     `json:"isFavorite"`
	// Monotonically increasing; the backend owns the authoritative count.
	UseCount  int    `json:"useCount"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`

	Model     ModelConfig        `json:"model"`
	Sampling  SamplingConfig     `json:"sampling"`
	Prompt    PromptConfig       `json:"prompt"`
	Image     ImageConfig        `json:"image"`
	Resources *ResourceDownloads `json:"resources,omitempty"`
}

// Tag is a user-defined label with a display color. Count is maintained by
// the backend, not recomputed locally.
type Tag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Count int    `json:"count"`
}

// DefaultTagColor is applied when a tag is created without a color.
const DefaultTagColor = "#6366f1"

// Documented sampling defaults, shared by NewPreset and the Fooocus importer.
const (
	DefaultCfgScale        = 7.0
	DefaultSampleSharpness = 2.0
	DefaultSampler         = "dpmpp_2m_sde_gpu"
	DefaultScheduler       = "karras"
	DefaultSteps           = 30
	DefaultRefinerSwitch   = 0.5
	DefaultAspectRatio     = "1152*896"
	DefaultImageCount      = 4
)

// NewPreset returns a preset with every field set to its documented default.
// Callers set the fields they care about before Create; there is no dynamic
// partial merge.
func NewPreset() PresetConfig {
	now := time.Now().UTC().Format(time.RFC3339)
	return PresetConfig{
		ID:        uuid.NewString(),
		Tags:      []string{},
		CreatedAt: now,
		UpdatedAt: now,
		Model: ModelConfig{
			RefinerSwitch: DefaultRefinerSwitch,
			LoRAs:         []LoRA{},
		},
		Sampling: SamplingConfig{
			CfgScale:        DefaultCfgScale,
			SampleSharpness: DefaultSampleSharpness,
			Sampler:         DefaultSampler,
			Scheduler:       DefaultScheduler,
			Performance:     PerformanceSpeed,
			Steps:           DefaultSteps,
		},
		Prompt: PromptConfig{Styles: []string{}},
		Image: ImageConfig{
			AspectRatio: DefaultAspectRatio,
			ImageCount:  DefaultImageCount,
		},
	}
}

// KnownSamplers lists the sampler names Fooocus ships with. The field is not
// validated against this list; it exists for UI pickers.
var KnownSamplers = []string{
	"dpmpp_2m_sde_gpu", "dpmpp_2m_sde", "dpmpp_2m", "euler", "euler_a",
	"heun", "dpm_2", "dpm_2_a", "lms", "dpm_fast", "dpm_adaptive", "ddim",
}

// KnownSchedulers lists the scheduler names Fooocus ships with.
var KnownSchedulers = []string{
	"karras", "normal", "exponential", "sgm_uniform", "simple", "ddim_uniform",
}

// KnownAspectRatios lists the SDXL-native resolutions, encoded "width*height".
var KnownAspectRatios = []string{
	"704*1408", "704*1344", "768*1344", "768*1280", "832*1216", "832*1152",
	"896*1152", "896*1088", "960*1088", "960*1024", "1024*1024", "1024*960",
	"1088*960", "1088*896", "1152*896", "1152*832", "1216*832", "1280*768",
	"1344*768", "1344*704", "1408*704", "1472*704", "1536*640", "1600*640",
	"1664*576", "1728*576",
}
