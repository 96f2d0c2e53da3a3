/*
Package tracing provides lightweight request tracing.

Every HTTP request gets a span; the command pipeline adds child spans for
translation and dispatch, and the remote translator forwards the trace to
the language-model endpoint. Finished spans are logged by a background
collector.

# Usage

	tracer := tracing.New("nexusd", logger)
	defer tracer.Close()

	router.Use(tracing.HTTPMiddleware(tracer))

	span, ctx := tracer.StartSpan(ctx, "translate")
	defer span.Finish()
	span.SetTag("mode", "remote")

# Trace Format

Traces use HTTP headers for propagation:
  - X-Trace-ID: identifies the whole request flow (trace_<ulid>)
  - X-Span-ID: identifies the current operation (span_<ulid>)
*/
package tracing
