package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"presetd/internal/fooocus"
	"presetd/internal/store"
	"presetd/pkg/types"
)

// maxBodyBytes controls the maximum allowed request body size for JSON endpoints.
var maxBodyBytes int64 = 1 << 20

// SetMaxBodyBytes allows configuring the maximum request body size.
func SetMaxBodyBytes(n int64) {
	if n <= 0 {
		maxBodyBytes = 1 << 20
		return
	}
	maxBodyBytes = n
}

// NewMux builds the local HTTP surface the desktop UI talks to. All state
// lives in the two stores; handlers only shape it for the wire.
func NewMux(models *store.ModelStore, presets *store.PresetStore) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	// The UI runs in a local webview; origins are not meaningful here.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE"},
		AllowedHeaders: []string{"Content-Type"},
	}))
	r.Use(MetricsMiddleware)
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Route("/models", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, types.ModelsResponse{Models: models.Filtered()})
		})
		r.Post("/refresh", func(w http.ResponseWriter, r *http.Request) {
			models.FetchAll(r.Context())
			if msg := models.Err(); msg != "" {
				writeJSONError(w, http.StatusBadGateway, msg)
				return
			}
			writeJSON(w, types.ModelsResponse{Models: models.Filtered()})
		})
		r.Put("/filter", func(w http.ResponseWriter, r *http.Request) {
			var f types.ModelFilterOptions
			if !decodeBody(w, r, &f) {
				return
			}
			models.SetFilter(f)
			w.WriteHeader(http.StatusNoContent)
		})
		r.Get("/tags", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, map[string][]string{"tags": models.AllTags()})
		})
		r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
			m := models.GetByID(chi.URLParam(r, "id"))
			if m == nil {
				writeJSONError(w, http.StatusNotFound, "model not found")
				return
			}
			writeJSON(w, m)
		})
		r.Get("/{id}/usage", func(w http.ResponseWriter, r *http.Request) {
			usage := models.CheckUsage(r.Context(), chi.URLParam(r, "id"))
			if usage == nil {
				writeJSONError(w, http.StatusNotFound, "usage unavailable")
				return
			}
			writeJSON(w, usage)
		})
	})

	r.Route("/presets", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, types.PresetsResponse{Presets: presets.Filtered()})
		})
		r.Post("/refresh", func(w http.ResponseWriter, r *http.Request) {
			presets.FetchAll(r.Context())
			presets.FetchTags(r.Context())
			if msg := presets.Err(); msg != "" {
				writeJSONError(w, http.StatusBadGateway, msg)
				return
			}
			writeJSON(w, types.PresetsResponse{Presets: presets.Filtered()})
		})
		r.Put("/filter", func(w http.ResponseWriter, r *http.Request) {
			var f types.FilterOptions
			if !decodeBody(w, r, &f) {
				return
			}
			presets.SetFilter(f)
			w.WriteHeader(http.StatusNoContent)
		})
		r.Get("/basemodels", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, map[string][]string{"baseModels": presets.BaseModels()})
		})

		// Import is a direct user action: parse failures surface as 400, not
		// as store error state.
		r.Post("/import", func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
			data, err := io.ReadAll(r.Body)
			if err != nil {
				writeJSONError(w, http.StatusBadRequest, "read body: "+err.Error())
				return
			}
			start := time.Now()
			p, err := fooocus.Parse(data)
			if err != nil {
				writeJSONError(w, http.StatusBadRequest, err.Error())
				return
			}
			created := presets.Create(r.Context(), p)
			if created == nil {
				writeJSONError(w, http.StatusBadGateway, presets.Err())
				return
			}
			if zlog != nil && defaultLogLevel >= LevelInfo {
				zlog.Info().Str("preset", created.Name).Dur("dur", time.Since(start)).Msg("preset imported")
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(created)
		})

		r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
			p := presets.GetByID(chi.URLParam(r, "id"))
			if p == nil {
				writeJSONError(w, http.StatusNotFound, "preset not found")
				return
			}
			writeJSON(w, p)
		})
		r.Post("/{id}/favorite", func(w http.ResponseWriter, r *http.Request) {
			presets.ToggleFavorite(r.Context(), chi.URLParam(r, "id"))
			if msg := presets.Err(); msg != "" {
				writeJSONError(w, http.StatusBadGateway, msg)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})
		r.Post("/{id}/use", func(w http.ResponseWriter, r *http.Request) {
			presets.IncrementUseCount(r.Context(), chi.URLParam(r, "id"))
			if msg := presets.Err(); msg != "" {
				writeJSONError(w, http.StatusBadGateway, msg)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})

		// Export streams the converted preset as a file download; the browser
		// side of the UI handles the actual save-to-disk.
		r.Get("/{id}/export", func(w http.ResponseWriter, r *http.Request) {
			p := presets.GetByID(chi.URLParam(r, "id"))
			if p == nil {
				writeJSONError(w, http.StatusNotFound, "preset not found")
				return
			}
			out, err := json.MarshalIndent(fooocus.Export(*p), "", "  ")
			if err != nil {
				writeJSONError(w, http.StatusInternalServerError, "encode preset")
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Content-Disposition",
				fmt.Sprintf("attachment; filename=%q", fooocus.ExportFileName(*p)))
			_, _ = w.Write(out)
		})
	})

	r.Route("/tags", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, types.TagsResponse{Tags: presets.Tags()})
		})
		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			var in struct {
				Name  string `json:"name"`
				Color string `json:"color"`
			}
			if !decodeBody(w, r, &in) {
				return
			}
			if in.Name == "" {
				writeJSONError(w, http.StatusBadRequest, "tag name is required")
				return
			}
			tag := presets.CreateTag(r.Context(), in.Name, in.Color)
			if tag == nil {
				writeJSONError(w, http.StatusBadGateway, presets.Err())
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(tag)
		})
		r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
			presets.DeleteTag(r.Context(), chi.URLParam(r, "id"))
			if msg := presets.Err(); msg != "" {
				writeJSONError(w, http.StatusBadGateway, msg)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ready"))
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
