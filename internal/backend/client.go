package backend

import (
	"context"

	"presetd/pkg/types"
)

// Client wraps the raw Invoker with one typed method per backend command.
type Client struct {
	inv Invoker
}

// NewClient wraps inv. Stores depend on Client, not on the transport.
func NewClient(inv Invoker) *Client { return &Client{inv: inv} }

type idArgs struct {
	ID string `json:"id"`
}

type queryArgs struct {
	Query string `json:"query"`
}

func (c *Client) GetAllModels(ctx context.Context) ([]types.ModelInfo, error) {
	var out []types.ModelInfo
	if err := c.inv.Invoke(ctx, "get_all_models", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetModelsByType(ctx context.Context, t types.ModelType) ([]types.ModelInfo, error) {
	args := struct {
		ModelType types.ModelType `json:"modelType"`
	}{t}
	var out []types.ModelInfo
	if err := c.inv.Invoke(ctx, "get_models_by_type", args, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetModelByID returns nil without error when the backend has no such record.
func (c *Client) GetModelByID(ctx context.Context, id string) (*types.ModelInfo, error) {
	var out *types.ModelInfo
	if err := c.inv.Invoke(ctx, "get_model_by_id", idArgs{id}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateModel(ctx context.Context, m types.ModelInfo) (*types.ModelInfo, error) {
	args := struct {
		Model types.ModelInfo `json:"model"`
	}{m}
	var out types.ModelInfo
	if err := c.inv.Invoke(ctx, "create_model", args, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateModel(ctx context.Context, m types.ModelInfo) (*types.ModelInfo, error) {
	args := struct {
		Model types.ModelInfo `json:"model"`
	}{m}
	var out types.ModelInfo
	if err := c.inv.Invoke(ctx, "update_model", args, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteModel(ctx context.Context, id string) error {
	return c.inv.Invoke(ctx, "delete_model", idArgs{id}, nil)
}

func (c *Client) SearchModels(ctx context.Context, query string) ([]types.ModelInfo, error) {
	var out []types.ModelInfo
	if err := c.inv.Invoke(ctx, "search_models", queryArgs{query}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CheckModelUsage(ctx context.Context, modelID string) (*types.ModelUsageInfo, error) {
	args := struct {
		ModelID string `json:"modelId"`
	}{modelID}
	var out types.ModelUsageInfo
	if err := c.inv.Invoke(ctx, "check_model_usage", args, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetAllPresets(ctx context.Context) ([]types.PresetConfig, error) {
	var out []types.PresetConfig
	if err := c.inv.Invoke(ctx, "get_all_presets", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetPresetByID returns nil without error when the backend has no such record.
func (c *Client) GetPresetByID(ctx context.Context, id string) (*types.PresetConfig, error) {
	var out *types.PresetConfig
	if err := c.inv.Invoke(ctx, "get_preset_by_id", idArgs{id}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreatePreset(ctx context.Context, p types.PresetConfig) (*types.PresetConfig, error) {
	args := struct {
		Preset types.PresetConfig `json:"preset"`
	}{p}
	var out types.PresetConfig
	if err := c.inv.Invoke(ctx, "create_preset", args, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdatePreset(ctx context.Context, p types.PresetConfig) (*types.PresetConfig, error) {
	args := struct {
		Preset types.PresetConfig `json:"preset"`
	}{p}
	var out types.PresetConfig
	if err := c.inv.Invoke(ctx, "update_preset", args, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeletePreset(ctx context.Context, id string) error {
	return c.inv.Invoke(ctx, "delete_preset", idArgs{id}, nil)
}

func (c *Client) ToggleFavorite(ctx context.Context, id string) error {
	return c.inv.Invoke(ctx, "toggle_favorite", idArgs{id}, nil)
}

func (c *Client) IncrementUseCount(ctx context.Context, id string) error {
	return c.inv.Invoke(ctx, "increment_use_count", idArgs{id}, nil)
}

func (c *Client) SearchPresets(ctx context.Context, query string) ([]types.PresetConfig, error) {
	var out []types.PresetConfig
	if err := c.inv.Invoke(ctx, "search_presets", queryArgs{query}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetAllTags(ctx context.Context) ([]types.Tag, error) {
	var out []types.Tag
	if err := c.inv.Invoke(ctx, "get_all_tags", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateTag(ctx context.Context, name, color string) (*types.Tag, error) {
	args := struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}{name, color}
	var out types.Tag
	if err := c.inv.Invoke(ctx, "create_tag", args, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTag(ctx context.Context, id string) error {
	return c.inv.Invoke(ctx, "delete_tag", idArgs{id}, nil)
}
