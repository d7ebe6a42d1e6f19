package estimator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/greenledger/emfactor/internal/logging"
	"github.com/greenledger/emfactor/internal/units"
)

// DefaultTimeout bounds a single estimation call. On expiry the caller
// treats the result exactly like "no response".
const DefaultTimeout = 15 * time.Second

// maxResponseBytes caps how much of the capability's reply is read.
const maxResponseBytes = 1 << 20

// ClientConfig configures the HTTP-backed estimator.
type ClientConfig struct {
	// Endpoint is the chat-completions URL of the estimation capability.
	Endpoint string

	// APIKey is sent as a bearer token when non-empty.
	APIKey string

	// Model names the model to query.
	Model string

	// Timeout bounds each Estimate call. Defaults to DefaultTimeout.
	Timeout time.Duration
}

// Client asks an external language model for a plausible emission factor.
// It implements Estimator.
type Client struct {
	cfg  ClientConfig
	http *http.Client
}

// NewClient builds an HTTP-backed estimator.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// chatRequest and chatResponse mirror the OpenAI-compatible wire shape the
// capability speaks.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// estimatePayload is the JSON object the model is instructed to reply with.
type estimatePayload struct {
	Value       float64 `json:"value"`
	Unit        string  `json:"unit"`
	Explanation string  `json:"explanation"`
}

const systemPrompt = `You are an emission factor estimator. Reply with a single JSON object ` +
	`{"value": <kgCO2e per unit>, "unit": "<unit>", "explanation": "<one sentence>"} and nothing else. ` +
	`If you cannot produce a defensible estimate, reply {"value": 0}.`

// Estimate asks the capability for a factor. Any transport failure, timeout,
// malformed reply or non-positive value is reported as an error; a zero is
// never passed through as a usable factor.
func (c *Client) Estimate(ctx context.Context, query Query) (*Candidate, error) {
	log := logging.FromContext(ctx)

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	prompt := fmt.Sprintf(
		"Estimate the emission factor for activity %q in region %q, measured in %q.",
		query.ActivityType, query.Region, query.Unit)
	if query.FreeTextContext != "" {
		extra := query.FreeTextContext
		if len(extra) > 500 {
			extra = extra[:500]
		}
		prompt += " Additional context: " + extra
	}

	body, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn().
			Str("component", "estimator").
			Err(err).
			Dur("elapsed", time.Since(start)).
			Msg("estimation request failed")
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	candidate, err := parseEstimate(raw, query)
	if err != nil {
		log.Debug().
			Str("component", "estimator").
			Str("activity", query.ActivityType).
			Err(err).
			Msg("estimation reply unusable")
		return nil, err
	}

	log.Info().
		Str("component", "estimator").
		Str("activity", query.ActivityType).
		Float64("value", candidate.Value).
		Str("unit", candidate.Unit).
		Dur("elapsed", time.Since(start)).
		Msg("estimation produced a candidate")
	return candidate, nil
}

// parseEstimate extracts a usable candidate from the capability's reply.
func parseEstimate(raw []byte, query Query) (*Candidate, error) {
	var reply chatResponse
	if err := json.Unmarshal(raw, &reply); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoEstimate, err)
	}
	if len(reply.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty reply", ErrNoEstimate)
	}

	content := strings.TrimSpace(reply.Choices[0].Message.Content)
	// Models sometimes wrap the object in a code fence.
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var payload estimatePayload
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoEstimate, err)
	}

	if payload.Value <= 0 || math.IsNaN(payload.Value) || math.IsInf(payload.Value, 0) {
		return nil, fmt.Errorf("%w: value %v", ErrNoEstimate, payload.Value)
	}

	unit := payload.Unit
	if unit == "" {
		unit = query.Unit
	}
	if !units.Known(unit) {
		return nil, fmt.Errorf("%w: unit %q", ErrNoEstimate, unit)
	}

	return &Candidate{
		Value:       payload.Value,
		Unit:        unit,
		Source:      "ai_estimate",
		Explanation: payload.Explanation,
	}, nil
}
