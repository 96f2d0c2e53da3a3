package tracing

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/utils"
)

// HTTPMiddleware starts a span per request, continuing the caller's trace
// when it sends well-formed X-Trace-ID and X-Span-ID headers
func HTTPMiddleware(tracer *Tracer) gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID, parentID := Extract(c.Request.Header)
		if utils.ValidateID(string(traceID), "trace id", true) != nil {
			traceID, parentID = "", ""
		}
		if utils.ValidateID(string(parentID), "span id", false) != nil {
			parentID = ""
		}

		name := c.FullPath()
		if name == "" {
			name = "unmatched"
		}

		ctx := ContextWithTrace(c.Request.Context(), traceID, parentID)
		span, ctx := tracer.StartSpan(ctx, c.Request.Method+" "+name)
		span.SetTag("http.method", c.Request.Method)
		span.SetTag("http.path", c.Request.URL.Path)

		c.Request = c.Request.WithContext(ctx)
		c.Header(TraceHeader, string(span.TraceID))
		c.Header(SpanHeader, string(span.SpanID))

		c.Next()

		span.SetStatus(c.Writer.Status())
		span.SetTag("http.status", strconv.Itoa(c.Writer.Status()))
		if len(c.Errors) > 0 {
			span.SetError(c.Errors.Last())
		}
		span.Finish()
	}
}
