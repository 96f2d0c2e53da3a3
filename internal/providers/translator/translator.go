package translator

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/NexusOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/NexusOS/backend/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/types"
)

// ErrTranslatorUnavailable is returned when a translator could not produce
// a reply: network failure, bad status, undecodable body or open breaker
var ErrTranslatorUnavailable = errors.New("translator unavailable")

// Modes accepted by New
const (
	ModeKeyword = "keyword"
	ModeRemote  = "remote"
)

// Translator turns free-form text into a message and a wire intent
type Translator interface {
	Translate(ctx context.Context, text string) (types.CommandResponse, error)
}

// Options selects and configures the translator built by New
type Options struct {
	Mode     string
	Remote   RemoteConfig
	Fallback bool
	Breaker  *resilience.Breaker
	Metrics  *monitoring.Metrics
}

// New builds the translator for opts.Mode. With Fallback set, a remote
// translator answers with the keyword rules while it is unavailable.
func New(opts Options, logger *zap.Logger) (Translator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch opts.Mode {
	case "", ModeKeyword:
		return NewKeyword(), nil
	case ModeRemote:
		remote, err := NewRemote(opts.Remote, opts.Breaker, logger)
		if err != nil {
			return nil, err
		}
		remote.WithMetrics(opts.Metrics)
		if !opts.Fallback {
			return remote, nil
		}
		return &Fallback{Primary: remote, Secondary: NewKeyword(), Logger: logger}, nil
	default:
		return nil, fmt.Errorf("unknown translator mode %q", opts.Mode)
	}
}

// Fallback asks Primary first and falls back to Secondary when Primary is
// unavailable. Other errors, such as cancellation, are returned as is.
type Fallback struct {
	Primary   Translator
	Secondary Translator
	Logger    *zap.Logger
}

// Translate implements Translator
func (f *Fallback) Translate(ctx context.Context, text string) (types.CommandResponse, error) {
	resp, err := f.Primary.Translate(ctx, text)
	if err == nil || !errors.Is(err, ErrTranslatorUnavailable) || f.Secondary == nil {
		return resp, err
	}
	if f.Logger != nil {
		f.Logger.Warn("Primary translator unavailable, using fallback", zap.Error(err))
	}
	return f.Secondary.Translate(ctx, text)
}
