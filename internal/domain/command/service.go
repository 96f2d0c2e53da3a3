// Package command runs one free-form command: translate the text, then
// dispatch the resulting intent against the window kernel.
package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/NexusOS/backend/internal/domain/intent"
	"github.com/GriffinCanCode/NexusOS/backend/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/types"
	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/utils"
)

var (
	// ErrEmptyCommand is returned for blank text; the translator is not called
	ErrEmptyCommand = errors.New("command text is empty")
	// ErrInvalidCommand is returned for text that fails validation
	ErrInvalidCommand = errors.New("invalid command")
)

// Translator turns text into a message and a wire intent
type Translator interface {
	Translate(ctx context.Context, text string) (types.CommandResponse, error)
}

// Dispatcher applies wire intents
type Dispatcher interface {
	Dispatch(raw types.Intent) (intent.Result, error)
}

// Outcome is what one command produced. Result is nil when the intent was
// rejected; Error then carries the reason next to the translator message.
type Outcome struct {
	Message string         `json:"message"`
	Intent  types.Intent   `json:"intent"`
	Result  *intent.Result `json:"result,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// Service ties a translator to a dispatcher
type Service struct {
	translator Translator
	dispatcher Dispatcher
	tracer     *tracing.Tracer
	logger     *zap.Logger
}

// NewService creates a command service
func NewService(translator Translator, dispatcher Dispatcher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		translator: translator,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// WithTracer records translate and dispatch spans
func (s *Service) WithTracer(tracer *tracing.Tracer) *Service {
	s.tracer = tracer
	return s
}

// Execute translates text and dispatches the intent. A translator failure
// is returned as is and nothing is dispatched. A rejected intent returns the
// populated Outcome together with the dispatch error.
func (s *Service) Execute(ctx context.Context, text string) (Outcome, error) {
	if strings.TrimSpace(text) == "" {
		return Outcome{}, ErrEmptyCommand
	}
	if err := utils.ValidateCommand(text); err != nil {
		return Outcome{}, fmt.Errorf("%w: %v", ErrInvalidCommand, err)
	}

	// The kernel is not touched until the translator has replied.
	span, tctx := s.tracer.StartSpan(ctx, "command.translate")
	resp, err := s.translator.Translate(tctx, text)
	if err != nil {
		span.SetError(err)
		span.Finish()
		s.logger.Error("Command translation failed",
			zap.String("trace_id", string(span.TraceID)),
			zap.Error(err))
		return Outcome{}, fmt.Errorf("translate command: %w", err)
	}
	span.SetTag("intent", string(resp.Intent.Kind))
	span.Finish()

	out := Outcome{Message: resp.Message, Intent: resp.Intent}

	span, _ = s.tracer.StartSpan(ctx, "command.dispatch")
	span.SetTag("intent", string(resp.Intent.Kind))
	result, err := s.dispatcher.Dispatch(resp.Intent)
	if err != nil {
		span.SetError(err)
		span.Finish()
		out.Error = err.Error()
		return out, err
	}
	span.Finish()
	out.Result = &result
	return out, nil
}
