package fooocus

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"presetd/pkg/types"
)

func TestImportAppliesDefaultsForAbsentFields(t *testing.T) {
	data := []byte(`{"default_model":"sdxl_base","default_loras":[["detail","detailLora",0.6]],"default_steps":20}`)
	p, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, "sdxl_base", p.Model.BaseModel)
	assert.Equal(t, types.DefaultRefinerSwitch, p.Model.RefinerSwitch)
	require.Len(t, p.Model.LoRAs, 1)
	assert.Equal(t, types.LoRA{Name: "detail", ModelName: "detailLora", Weight: 0.6}, p.Model.LoRAs[0])

	assert.Equal(t, types.DefaultCfgScale, p.Sampling.CfgScale)
	assert.Equal(t, types.DefaultSampleSharpness, p.Sampling.SampleSharpness)
	assert.Equal(t, types.DefaultSampler, p.Sampling.Sampler)
	assert.Equal(t, types.DefaultScheduler, p.Sampling.Scheduler)
	assert.Equal(t, 20, p.Sampling.Steps)

	assert.Equal(t, types.DefaultAspectRatio, p.Image.AspectRatio)
	assert.Equal(t, types.DefaultImageCount, p.Image.ImageCount)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "sdxl_base", p.Name)
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)
	assert.NotEmpty(t, p.CreatedAt)
	assert.Nil(t, p.Resources)
}

func TestImportNamePrecedence(t *testing.T) {
	fp := Preset{DefaultModel: "sdxl_base"}

	assert.Equal(t, "My preset", Import(fp, "My preset").Name)
	assert.Equal(t, "sdxl_base", Import(fp, "").Name)
	assert.Equal(t, "Imported preset", Import(Preset{}, "").Name)
}

func TestImportNoLoRAsYieldsEmptySlice(t *testing.T) {
	p, err := Parse([]byte(`{"default_model":"m"}`))
	require.NoError(t, err)
	require.NotNil(t, p.Model.LoRAs)
	assert.Empty(t, p.Model.LoRAs)
	require.NotNil(t, p.Prompt.Styles)
	assert.Empty(t, p.Prompt.Styles)
	require.NotNil(t, p.Tags)
}

func TestParseMalformedJSON(t *testing.T) {
	_, err := Parse([]byte(`{"default_model":`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse fooocus preset")
}

func TestParseRejectsWrongLoRAArity(t *testing.T) {
	_, err := Parse([]byte(`{"default_loras":[["name","file"]]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want 3 elements")

	_, err = Parse([]byte(`{"default_loras":[["a","b",0.5,true]]}`))
	require.Error(t, err)
}

func TestExportWritesSentinelsAndLegacyKeys(t *testing.T) {
	p := types.NewPreset()
	p.Model.BaseModel = "juggernautXL_v8.safetensors"
	p.Prompt.Positive = "masterpiece"
	p.Prompt.Negative = "blurry"

	out := Export(p)
	assert.Equal(t, -1, out.DefaultOverwriteStep)
	assert.Equal(t, -1, out.DefaultOverwriteSwitch)
	assert.Equal(t, -1, out.DefaultOverwriteWidth)
	assert.Equal(t, -1, out.DefaultOverwriteHeight)
	assert.Equal(t, 7.0, out.DefaultCfgTSNR)

	assert.Equal(t, "masterpiece", out.DefaultPromptPositive)
	assert.Equal(t, "masterpiece", out.DefaultPositivePrompt)
	assert.Equal(t, "blurry", out.DefaultPromptNegative)
	assert.Equal(t, "blurry", out.DefaultNegativePrompt)
}

func TestExportAbsentResourceMapsStayAbsent(t *testing.T) {
	p := types.NewPreset()
	b, err := json.Marshal(Export(p))
	require.NoError(t, err)

	s := string(b)
	assert.NotContains(t, s, "checkpoint_downloads")
	assert.NotContains(t, s, "lora_downloads")
	assert.NotContains(t, s, "embedding_downloads")
}

func TestExportCarriesResourceMaps(t *testing.T) {
	p := types.NewPreset()
	p.Resources = &types.ResourceDownloads{
		CheckpointDownloads: map[string]string{"base.safetensors": "https://example/base"},
	}
	out := Export(p)
	assert.Equal(t, "https://example/base", out.CheckpointDownloads["base.safetensors"])
	assert.Nil(t, out.LoRADownloads)
}

func TestLoRATupleWireShape(t *testing.T) {
	b, err := json.Marshal(LoRATuple{Name: "detail", ModelName: "detailLora", Weight: 0.6})
	require.NoError(t, err)
	assert.JSONEq(t, `["detail","detailLora",0.6]`, string(b))

	var tup LoRATuple
	require.NoError(t, json.Unmarshal([]byte(`["a","b",1.0]`), &tup))
	assert.Equal(t, LoRATuple{Name: "a", ModelName: "b", Weight: 1.0}, tup)
}

// A fully-populated preset survives an export, reimport, export cycle with an
// identical file payload. Identity of the internal record is not expected
// (fresh id and timestamps on import).
func TestExportImportExportIsStable(t *testing.T) {
	p := types.NewPreset()
	p.Name = "Cinematic"
	p.Model.BaseModel = "juggernautXL_v8.safetensors"
	p.Model.RefinerModel = "refiner.safetensors"
	p.Model.RefinerSwitch = 0.667
	p.Model.LoRAs = []types.LoRA{{Name: "detail", ModelName: "detailLora.safetensors", Weight: 0.6}}
	p.Sampling.CfgScale = 4.5
	p.Sampling.SampleSharpness = 3
	p.Sampling.Steps = 25
	p.Prompt.Positive = "cinematic still"
	p.Prompt.Negative = "cartoon"
	p.Prompt.Styles = []string{"Fooocus V2"}
	p.Image.AspectRatio = "1344*768"

	first := Export(p)
	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)

	reimported, err := Parse(firstJSON)
	require.NoError(t, err)

	secondJSON, err := json.Marshal(Export(reimported))
	require.NoError(t, err)
	assert.JSONEq(t, string(firstJSON), string(secondJSON))
}

func TestExportFileName(t *testing.T) {
	p := types.NewPreset()
	assert.Equal(t, "preset.json", ExportFileName(p))
	p.Name = "Cinematic"
	assert.Equal(t, "Cinematic.json", ExportFileName(p))
}
