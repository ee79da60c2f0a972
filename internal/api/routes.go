package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/curaious/ticktrack/internal/api/authenticator"
	"github.com/curaious/ticktrack/internal/api/controllers"
	"github.com/curaious/ticktrack/internal/api/response"
	"github.com/curaious/ticktrack/internal/perrors"
)

var tracePropagator = propagation.TraceContext{}

var tracer = otel.Tracer("github.com/curaious/ticktrack/internal/api")

func (s *Server) initRoutes() fasthttp.RequestHandler {
	r := router.New()

	r.GET("/health", s.health)

	controllers.RegisterUserRoutes(r, s.services, s.auth)
	controllers.RegisterProjectRoutes(r, s.services, s.auth)
	controllers.RegisterTaskRoutes(r, s.services, s.auth)
	controllers.RegisterTimeEntryRoutes(r, s.services, s.auth)

	return s.withMiddlewares(r.Handler)
}

func (s *Server) health(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.services.Health.PingContext(stdCtx); err != nil {
		response.NewResponse[any](stdCtx, "Database unreachable", "", nil).
			WithError(perrors.NewErrInternalServerError("Database unreachable", err)).
			Write(ctx)
		return
	}

	response.NewResponse(stdCtx, "", "database", "connected").Write(ctx)
}

func (s *Server) withMiddlewares(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		applyCORS(ctx, s.conf.ALLOWED_HEADERS)
		if string(ctx.Method()) == fasthttp.MethodOptions {
			ctx.SetStatusCode(fasthttp.StatusNoContent)
			return
		}

		start := time.Now()
		method := string(ctx.Method())
		path := string(ctx.Path())
		requestURI := string(ctx.RequestURI())
		slog.Info("Started processing", slog.String("method", method), slog.String("request_uri", requestURI))

		h := http.Header{}
		ctx.Request.Header.VisitAll(func(k, v []byte) {
			h[string(k)] = []string{string(v)}
		})
		traceCtx := tracePropagator.Extract(ctx, propagation.HeaderCarrier(h))

		spanCtx, span := tracer.Start(traceCtx, method+" "+path,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				semconv.HTTPMethodKey.String(method),
				semconv.HTTPTargetKey.String(requestURI),
			),
		)
		defer span.End()
		ctx.SetUserValue(controllers.TraceCtxKey, spanCtx)

		if s.limiter != nil && path != "/health" {
			allowed, err := s.limiter.Allow(spanCtx, rateLimitKey(ctx))
			if err != nil {
				// fail open
				slog.WarnContext(spanCtx, "Rate limit check failed", slog.Any("error", err))
			} else if !allowed {
				response.NewResponse[any](spanCtx, "Too many requests", "", nil).
					WithError(perrors.NewErrTooManyRequests("Rate limit exceeded", nil)).
					Write(ctx)
				finish(span, ctx, method, requestURI, start)
				return
			}
		}

		next(ctx)

		finish(span, ctx, method, requestURI, start)
	}
}

func finish(span trace.Span, ctx *fasthttp.RequestCtx, method, requestURI string, start time.Time) {
	status := ctx.Response.StatusCode()
	span.SetAttributes(semconv.HTTPStatusCodeKey.Int(status))
	if status >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, http.StatusText(status))
	}

	slog.Info("Finished processing",
		slog.String("method", method),
		slog.String("request_uri", requestURI),
		slog.Int("status", status),
		slog.Duration("duration", time.Since(start)))
}

// rateLimitKey buckets authenticated callers by credential and anonymous ones by address
func rateLimitKey(ctx *fasthttp.RequestCtx) string {
	if token, err := authenticator.BearerToken(string(ctx.Request.Header.Peek(fasthttp.HeaderAuthorization))); err == nil {
		return "bearer:" + token
	}

	return "ip:" + ctx.RemoteIP().String()
}

func applyCORS(ctx *fasthttp.RequestCtx, allowedHeaders string) {
	headers := &ctx.Response.Header
	headers.Set("Access-Control-Allow-Origin", string(ctx.Request.Header.Peek("Origin")))
	headers.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
	headers.Set("Access-Control-Allow-Headers", allowedHeaders)
	headers.Set("Access-Control-Allow-Credentials", "true")
}
