// Package backend is the command-invocation boundary to the persistence
// service. One named command per operation; every command is fallible and
// nothing here retries.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Invoker executes one named backend command. args is marshaled as the JSON
// request body; on success the response body is unmarshaled into reply when
// reply is non-nil.
type Invoker interface {
	Invoke(ctx context.Context, command string, args any, reply any) error
}

const defaultTimeout = 30 * time.Second

// HTTPInvoker invokes commands as POST <base>/command/<name> with a JSON body.
type HTTPInvoker struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewHTTPInvoker builds an invoker for the persistence service at baseURL
// (e.g. http://127.0.0.1:8189).
func NewHTTPInvoker(baseURL string, log zerolog.Logger) *HTTPInvoker {
	return &HTTPInvoker{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        log,
	}
}

func (h *HTTPInvoker) Invoke(ctx context.Context, command string, args any, reply any) error {
	start := time.Now()
	err := h.invoke(ctx, command, args, reply)
	observeCommand(command, err, time.Since(start))
	if err != nil {
		h.log.Error().Str("command", command).Err(err).Msg("backend command failed")
		return err
	}
	h.log.Debug().Str("command", command).Dur("dur", time.Since(start)).Msg("backend command ok")
	return nil
}

func (h *HTTPInvoker) invoke(ctx context.Context, command string, args any, reply any) error {
	body := bytes.NewReader(nil)
	if args != nil {
		b, err := json.Marshal(args)
		if err != nil {
			return commandError{command: command, msg: fmt.Sprintf("encode args: %v", err)}
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/command/"+command, body)
	if err != nil {
		return commandError{command: command, msg: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return commandError{command: command, msg: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// The backend renders failures as a JSON error payload; fall back to
		// the raw body when it does not.
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(b, &e) == nil && e.Error != "" {
			return commandError{command: command, msg: e.Error}
		}
		return commandError{command: command, msg: fmt.Sprintf("status %d: %s", resp.StatusCode, bytes.TrimSpace(b))}
	}
	if reply == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(reply); err != nil {
		return commandError{command: command, msg: fmt.Sprintf("decode reply: %v", err)}
	}
	return nil
}
