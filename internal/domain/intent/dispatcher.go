package intent

import (
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/NexusOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/types"
)

// Dispatcher maps wire intents onto window kernel calls. It performs no I/O.
type Dispatcher struct {
	mu       sync.RWMutex
	decoders map[types.IntentKind]DecodeFunc // Protected by mu
	env      Env
	logger   *zap.Logger
	metrics  *monitoring.Metrics
}

// NewDispatcher creates a dispatcher for the built-in intent kinds
func NewDispatcher(kernel Kernel, titles TitleResolver, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		decoders: defaultDecoders(),
		env:      Env{Kernel: kernel, Titles: titles},
		logger:   logger,
	}
}

// WithMetrics adds metrics tracking to the dispatcher
func (d *Dispatcher) WithMetrics(metrics *monitoring.Metrics) *Dispatcher {
	d.metrics = metrics
	return d
}

// Register adds or replaces the decoder for an intent kind. A nil decode
// removes the kind, which then dispatches as an unknown kind.
func (d *Dispatcher) Register(kind types.IntentKind, decode DecodeFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if decode == nil {
		delete(d.decoders, kind)
		return
	}
	d.decoders[kind] = decode
}

// Decode validates a wire intent against the registered kinds
func (d *Dispatcher) Decode(raw types.Intent) (Intent, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return decodeWith(d.decoders, raw)
}

// Dispatch decodes raw and applies it. A malformed intent returns a
// *MalformedIntentError and leaves the kernel untouched; "none" and unknown
// kinds succeed without any kernel call.
func (d *Dispatcher) Dispatch(raw types.Intent) (Result, error) {
	in, err := d.Decode(raw)
	if err != nil {
		d.logger.Warn("Rejected intent", zap.String("kind", string(raw.Kind)), zap.Error(err))
		d.metrics.RecordIntent(string(raw.Kind), "rejected")
		return Result{Kind: raw.Kind, Action: ActionNone}, err
	}

	result := in.Apply(d.env)
	if result.Action == ActionNone {
		d.logger.Debug("No desktop action for intent", zap.String("kind", string(result.Kind)))
		d.metrics.RecordIntent(string(result.Kind), "ignored")
		return result, nil
	}

	d.logger.Info("Intent applied",
		zap.String("kind", string(result.Kind)),
		zap.String("action", string(result.Action)),
		zap.String("window_id", result.WindowID),
	)
	d.metrics.RecordIntent(string(result.Kind), "applied")
	return result, nil
}
