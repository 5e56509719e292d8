// internal/common/http/gateway.go
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "govscheme-workers/internal/common/errors"
	"govscheme-workers/internal/common/logger"
	"govscheme-workers/internal/common/metrics"
	"govscheme-workers/internal/models"
)

// Operation names double as metric labels and span names.
const (
	OpRecommend = "recommend"
	OpChat      = "chat"
	OpSchemes   = "schemes"
	OpLanguages = "languages"
	OpStates    = "states"
	OpHealth    = "health"
)

const (
	DefaultTimeout = 30 * time.Second

	// Bytes of a failed response body kept for the error message.
	errorBodyLimit = 2048
)

type GatewayConfig struct {
	BaseURL string
	Timeout time.Duration
}

// Gateway is the single-attempt JSON client for the recommendation backend.
// It never retries; every failure is returned as a *errors.StandardError.
type Gateway struct {
	baseURL string
	client  *Client
	log     logger.Logger
	tracer  trace.Tracer
}

func NewGateway(cfg GatewayConfig, log logger.Logger) *Gateway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Gateway{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  NewClient(timeout),
		log:     log.WithFields(map[string]interface{}{"component": "gateway"}),
		tracer:  otel.Tracer("govscheme-workers/gateway"),
	}
}

// ChatContext is sent alongside each chat message so the assistant can
// personalise answers.
type ChatContext struct {
	SessionID  string   `json:"session_id,omitempty"`
	State      string   `json:"state,omitempty"`
	Category   string   `json:"category,omitempty"`
	Occupation string   `json:"occupation,omitempty"`
	Age        int      `json:"age,omitempty"`
	Schemes    []string `json:"schemes,omitempty"`
}

type chatRequest struct {
	Message  string      `json:"message"`
	Language string      `json:"language"`
	Context  ChatContext `json:"context"`
}

type ChatReply struct {
	Success  bool   `json:"success"`
	Response string `json:"response"`
}

// SchemeFilters maps onto the directory endpoint's query string. Empty
// fields are omitted.
type SchemeFilters struct {
	Category string
	Type     string
	State    string
}

func (f SchemeFilters) values() url.Values {
	v := url.Values{}
	if f.Category != "" {
		v.Set("category", f.Category)
	}
	if f.Type != "" {
		v.Set("type", f.Type)
	}
	if f.State != "" {
		v.Set("state", f.State)
	}
	return v
}

type SchemeDirectory struct {
	Total   int             `json:"total"`
	Schemes []models.Scheme `json:"schemes"`
}

type HealthStatus struct {
	Status       string   `json:"status"`
	App          string   `json:"app"`
	TotalSchemes int      `json:"total_schemes"`
	Endpoints    []string `json:"endpoints"`
}

func (g *Gateway) GetRecommendations(ctx context.Context, profile models.UserProfile, language string) (*models.RecommendResponse, error) {
	req := models.RecommendRequest{UserProfile: profile, Language: language}
	var resp models.RecommendResponse
	if err := g.call(ctx, OpRecommend, http.MethodPost, "/api/recommend", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (g *Gateway) SendChatMessage(ctx context.Context, message, language string, chatCtx ChatContext) (*ChatReply, error) {
	body := chatRequest{Message: message, Language: language, Context: chatCtx}
	var reply ChatReply
	if err := g.call(ctx, OpChat, http.MethodPost, "/api/chat", nil, body, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

func (g *Gateway) GetAllSchemes(ctx context.Context, filters SchemeFilters) (*SchemeDirectory, error) {
	var dir SchemeDirectory
	if err := g.call(ctx, OpSchemes, http.MethodGet, "/api/schemes", filters.values(), nil, &dir); err != nil {
		return nil, err
	}
	if dir.Schemes == nil {
		dir.Schemes = []models.Scheme{}
	}
	return &dir, nil
}

// GetLanguages returns the provider's language list undecoded.
func (g *Gateway) GetLanguages(ctx context.Context) (json.RawMessage, error) {
	var out struct {
		Languages json.RawMessage `json:"languages"`
	}
	if err := g.call(ctx, OpLanguages, http.MethodGet, "/api/languages", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Languages, nil
}

// GetStates returns the provider's state list undecoded.
func (g *Gateway) GetStates(ctx context.Context) (json.RawMessage, error) {
	var out struct {
		States json.RawMessage `json:"states"`
	}
	if err := g.call(ctx, OpStates, http.MethodGet, "/api/states", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.States, nil
}

func (g *Gateway) HealthCheck(ctx context.Context) (*HealthStatus, error) {
	var status HealthStatus
	if err := g.call(ctx, OpHealth, http.MethodGet, "/", nil, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (g *Gateway) call(ctx context.Context, op, method, path string, query url.Values, in, out interface{}) (err error) {
	start := time.Now()
	ctx, span := g.tracer.Start(ctx, "gateway."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
		),
	)
	outcome := "ok"
	defer func() {
		metrics.ObserveGateway(op, outcome, start)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
			g.log.Warn("backend call failed", map[string]interface{}{
				"operation": op,
				"outcome":   outcome,
				"duration":  time.Since(start).String(),
				"error":     err.Error(),
			})
		}
		span.End()
	}()

	endpoint := g.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		payload, mErr := json.Marshal(in)
		if mErr != nil {
			outcome = "bad_request"
			return apperrors.NewInvalidInputError(fmt.Sprintf("encode %s request: %v", op, mErr))
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		outcome = "bad_request"
		return apperrors.NewInvalidInputError(fmt.Sprintf("build %s request: %v", op, err))
	}
	resp, err := g.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			outcome = "timeout"
			return apperrors.NewGatewayTimeoutError(op, err)
		}
		outcome = "unavailable"
		return apperrors.NewGatewayUnavailableError(op, err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		outcome = "http_error"
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return apperrors.NewGatewayHTTPError(op, resp.StatusCode).
			WithMetadata("backendError", backendMessage(snippet))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if isTimeout(err) {
			outcome = "timeout"
			return apperrors.NewGatewayTimeoutError(op, err)
		}
		outcome = "bad_response"
		return apperrors.NewGatewayBadResponseError(op, err)
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// backendMessage pulls the "error" field out of a JSON error body, falling
// back to the raw text.
func backendMessage(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(body))
}
