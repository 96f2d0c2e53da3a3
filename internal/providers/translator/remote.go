package translator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/NexusOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/NexusOS/backend/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/NexusOS/backend/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/codec"
	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/types"
)

// RemoteConfig configures the remote translator client
type RemoteConfig struct {
	URL          string
	Timeout      time.Duration
	Retries      int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
}

// Remote asks an external language-model endpoint to translate text
type Remote struct {
	url     string
	client  *resty.Client
	breaker *resilience.Breaker
	logger  *zap.Logger
	metrics *monitoring.Metrics
}

type remoteRequest struct {
	Prompt string `json:"prompt"`
}

// remoteReply accepts both the current shape and the legacy
// {dialogue, action: {type, payload}} shape
type remoteReply struct {
	Message  string        `json:"message"`
	Intent   *types.Intent `json:"intent"`
	Dialogue string        `json:"dialogue"`
	Action   *struct {
		Type    types.IntentKind       `json:"type"`
		Payload map[string]interface{} `json:"payload"`
	} `json:"action"`
}

// NewRemote creates a remote translator. A nil breaker gets a default one.
func NewRemote(cfg RemoteConfig, breaker *resilience.Breaker, logger *zap.Logger) (*Remote, error) {
	if cfg.URL == "" {
		return nil, errors.New("remote translator requires a URL")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.RetryWaitMin <= 0 {
		cfg.RetryWaitMin = 500 * time.Millisecond
	}
	if cfg.RetryWaitMax <= 0 {
		cfg.RetryWaitMax = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if breaker == nil {
		breaker = resilience.New("translator", resilience.Settings{})
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.Retries
	retryClient.RetryWaitMin = cfg.RetryWaitMin
	retryClient.RetryWaitMax = cfg.RetryWaitMax
	retryClient.Logger = nil
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client := resty.NewWithClient(retryClient.StandardClient()).
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", "NexusOS-Translator/1.0").
		SetHeader("Accept", "application/json").
		SetJSONMarshaler(codec.Marshal).
		SetJSONUnmarshaler(codec.Unmarshal)

	return &Remote{
		url:     cfg.URL,
		client:  client,
		breaker: breaker,
		logger:  logger,
	}, nil
}

// WithMetrics attaches metrics to the translator
func (r *Remote) WithMetrics(metrics *monitoring.Metrics) *Remote {
	r.metrics = metrics
	return r
}

// Translate implements Translator
func (r *Remote) Translate(ctx context.Context, text string) (types.CommandResponse, error) {
	timer := monitoring.NewTimer(r.metrics, ModeRemote)

	var body []byte
	err := r.breaker.Do(ctx, func(ctx context.Context) error {
		resp, err := r.client.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetHeaders(tracing.Headers(ctx)).
			SetBody(remoteRequest{Prompt: text}).
			Post(r.url)
		if err != nil {
			return err
		}
		if resp.IsError() {
			return fmt.Errorf("status %d", resp.StatusCode())
		}
		body = resp.Body()
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			timer.Stop("canceled")
			return types.CommandResponse{}, err
		}
		timer.Stop("error")
		r.logger.Warn("Remote translator call failed",
			zap.String("url", r.url),
			zap.String("breaker", r.breaker.State().String()),
			zap.Error(err))
		return types.CommandResponse{}, fmt.Errorf("%w: %w", ErrTranslatorUnavailable, err)
	}

	out, err := decodeReply(body)
	if err != nil {
		timer.Stop("error")
		return types.CommandResponse{}, fmt.Errorf("%w: %w", ErrTranslatorUnavailable, err)
	}
	timer.Stop("ok")
	return out, nil
}

func decodeReply(body []byte) (types.CommandResponse, error) {
	var reply remoteReply
	if err := codec.Unmarshal(body, &reply); err != nil {
		return types.CommandResponse{}, fmt.Errorf("decode reply: %w", err)
	}

	out := types.CommandResponse{Message: reply.Message, Intent: types.NoIntent()}
	if out.Message == "" {
		out.Message = reply.Dialogue
	}

	switch {
	case reply.Intent != nil:
		out.Intent = *reply.Intent
	case reply.Action != nil:
		out.Intent = types.Intent{Kind: reply.Action.Type, Payload: reply.Action.Payload}
	}
	if out.Intent.Kind == "" {
		out.Intent.Kind = types.IntentNone
	}
	return out, nil
}
