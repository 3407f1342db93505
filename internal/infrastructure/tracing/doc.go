/*
Package tracing provides lightweight request tracing.

# Overview

Implements minimal span tracking for debugging production issues. Trace
context propagates via the X-Trace-ID and X-Span-ID HTTP headers; spans are
logged through the structured logger with a buffered collector.

# Usage

	// Create tracer
	tracer := tracing.New("backend", logger)

	// HTTP middleware
	router.Use(tracing.HTTPMiddleware(tracer))

	// Manual spans
	span, ctx := tracer.StartSpan(ctx, "validate-action")
	defer func() {
		span.Finish()
		tracer.Submit(span)
	}()
*/
package tracing
