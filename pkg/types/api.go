package types

// ModelsResponse wraps the list of models returned by GET /models.
type ModelsResponse struct {
	Models []ModelInfo `json:"models"`
}

// PresetsResponse wraps the list of presets returned by GET /presets.
type PresetsResponse struct {
	Presets []PresetConfig `json:"presets"`
}

// TagsResponse wraps the list of tags returned by GET /tags.
type TagsResponse struct {
	Tags []Tag `json:"tags"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}
