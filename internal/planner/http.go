package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	log "log/slog"
	"net/http"
	"time"

	"murmur/internal/command"
	"murmur/pkg/planwire"
)

// maxPlanBody caps how much of a planner response gets read.
const maxPlanBody = 1 << 20

// HTTP posts the agent context to a planner service's /plan endpoint.
type HTTP struct {
	url     string
	client  *http.Client
	timeout time.Duration
}

// NewHTTP builds a gateway for the given plan URL. A nil client uses a
// default one.
func NewHTTP(url string, client *http.Client, timeout time.Duration) *HTTP {
	if client == nil {
		client = &http.Client{}
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &HTTP{url: url, client: client, timeout: timeout}
}

func (h *HTTP) Plan(ctx context.Context, actx AgentContext) *command.Plan {
	body, err := json.Marshal(wireRequest(actx))
	if err != nil {
		log.Warn("Planner request marshal failed", "err", err)
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(body))
	if err != nil {
		log.Warn("Planner request build failed", "err", err)
		return nil
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		log.Warn("Planner unreachable", "url", h.url, "err", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warn("Planner returned non-OK", "url", h.url, "status", resp.StatusCode)
		return nil
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxPlanBody))
	if err != nil {
		log.Warn("Planner response read failed", "err", err)
		return nil
	}

	return fromWire(planwire.DecodePlan(raw))
}
