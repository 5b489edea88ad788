package types

// SortOrder selects ascending or descending output.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Sort keys accepted by the filtered views. Models support all but SortByUseCount.
const (
	SortByName      = "name"
	SortByCreatedAt = "createdAt"
	SortByUpdatedAt = "updatedAt"
	SortByUseCount  = "useCount"
)

// FilterOptions is the ephemeral query state of the preset registry. It is
// never persisted and only changes by explicit replacement.
type FilterOptions struct {
	// Case-insensitive substring match against name, description and tags.
	Search string `json:"search"`
	// Keep presets carrying at least one of these tags (OR semantics).
	Tags []string `json:"tags"`
	// Tri-state: nil means "don't filter on favorite".
	IsFavorite *bool `json:"isFavorite"`
	// Case-insensitive substring match against the resolved base-model name.
	BaseModel string    `json:"baseModel"`
	SortBy    string    `json:"sortBy"`
	SortOrder SortOrder `json:"sortOrder"`
}

// ModelFilterOptions is the ephemeral query state of the model registry.
type ModelFilterOptions struct {
	// Case-insensitive substring match against name, description, scope and tags.
	Search string `json:"search"`
	// Exact model type; empty means all types.
	Type ModelType `json:"type"`
	// Keep models carrying at least one of these in tags or scope.
	Tags      []string  `json:"tags"`
	SortBy    string    `json:"sortBy"`
	SortOrder SortOrder `json:"sortOrder"`
}

// DefaultFilter matches everything, newest first.
func DefaultFilter() FilterOptions {
	return FilterOptions{
		Tags:      []string{},
		SortBy:    SortByUpdatedAt,
		SortOrder: SortDesc,
	}
}

// DefaultModelFilter matches everything, newest first.
func DefaultModelFilter() ModelFilterOptions {
	return ModelFilterOptions{
		Tags:      []string{},
		SortBy:    SortByUpdatedAt,
		SortOrder: SortDesc,
	}
}
