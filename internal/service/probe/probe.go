package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrUnavailable marks a failed liveness check: connection failure, timeout,
// or a non-OK answer from the upstream root.
var ErrUnavailable = errors.New("gradio service unavailable")

// Prober performs single-shot liveness checks against the upstream Gradio app.
// It holds no state between checks and never retries.
type Prober struct {
	baseURL string
	client  *http.Client
}

// New creates a Prober for the given upstream root with a fixed per-check timeout.
func New(baseURL string, timeout time.Duration) *Prober {
	return &Prober{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Check issues one GET against the upstream root. Unreachability and non-OK
// statuses come back wrapping ErrUnavailable; any other failure is returned
// as-is for the caller to classify.
func (p *Prober) Check(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("build probe request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: upstream returned status %d", ErrUnavailable, resp.StatusCode)
	}

	return nil
}
