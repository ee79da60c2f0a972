package controllers

import (
	"context"
	"errors"
	"fmt"

	json "github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"github.com/curaious/ticktrack/internal/api/authenticator"
	"github.com/curaious/ticktrack/internal/api/response"
	"github.com/curaious/ticktrack/internal/perrors"
	"github.com/curaious/ticktrack/internal/services"
	"github.com/curaious/ticktrack/internal/services/project"
	"github.com/curaious/ticktrack/internal/services/task"
	"github.com/curaious/ticktrack/internal/services/timeentry"
	"github.com/curaious/ticktrack/internal/services/user"
)

// TraceCtxKey is the user value under which the middleware stores the request's trace context.
const TraceCtxKey = "traceCtx"

// SubjectResolver maps a bearer credential to the caller's external subject id.
type SubjectResolver interface {
	Subject(ctx context.Context, token string) (string, error)
}

// requestContext returns the context carrying the request span, or Background when none was set.
func requestContext(ctx *fasthttp.RequestCtx) context.Context {
	if traceCtx, ok := ctx.UserValue(TraceCtxKey).(context.Context); ok {
		return traceCtx
	}

	return context.Background()
}

func parseBody(ctx *fasthttp.RequestCtx, target any) error {
	body := ctx.PostBody()
	if len(body) == 0 {
		return errors.New("request body is empty")
	}

	return json.Unmarshal(body, target)
}

// explicitNull reports whether the JSON object body sets key to null, which a pointer field cannot tell apart from absence.
func explicitNull(body []byte, key string) bool {
	node, err := json.Get(body, key)
	if err != nil || !node.Exists() {
		return false
	}

	raw, err := node.Raw()
	return err == nil && raw == "null"
}

func writeError(ctx *fasthttp.RequestCtx, stdCtx context.Context, message string, err error) {
	response.NewResponse[any](stdCtx, message, "", nil).WithError(err).Write(ctx)
}

func writeOK(ctx *fasthttp.RequestCtx, stdCtx context.Context, message string, key string, data any) {
	response.NewResponse(stdCtx, message, key, data).Write(ctx)
}

func pathParam(ctx *fasthttp.RequestCtx, key string) (string, error) {
	val := ctx.UserValue(key)
	if val == nil {
		return "", fmt.Errorf("%s is required", key)
	}

	return fmt.Sprint(val), nil
}

func pathParamUUID(ctx *fasthttp.RequestCtx, key string) (uuid.UUID, error) {
	val, err := pathParam(ctx, key)
	if err != nil {
		return uuid.Nil, err
	}

	return uuid.Parse(val)
}

func requireStringQuery(ctx *fasthttp.RequestCtx, key string) (string, error) {
	raw := ctx.QueryArgs().Peek(key)
	if len(raw) == 0 {
		return "", fmt.Errorf("%s parameter is required", key)
	}

	return string(raw), nil
}

// caller runs the first two steps of every protected handler: bearer extraction and user lookup.
// On failure the error response is already written and ok is false.
func caller(ctx *fasthttp.RequestCtx, stdCtx context.Context, svc *services.Services, auth SubjectResolver) (*user.User, bool) {
	token, err := authenticator.BearerToken(string(ctx.Request.Header.Peek(fasthttp.HeaderAuthorization)))
	if err != nil {
		writeError(ctx, stdCtx, "Authentication required", perrors.NewErrUnauthorized("Missing or invalid authorization header", err))
		return nil, false
	}

	subject, err := auth.Subject(stdCtx, token)
	if err != nil {
		writeError(ctx, stdCtx, "Authentication required", perrors.NewErrUnauthorized("Invalid authorization token", err))
		return nil, false
	}

	u, err := svc.User.GetByFirebaseUID(stdCtx, subject)
	if err != nil {
		writeError(ctx, stdCtx, "Failed to resolve user", translate("Failed to resolve user", err))
		return nil, false
	}

	return u, true
}

// translate maps service sentinels onto the HTTP error taxonomy. Unknown errors are internal.
func translate(message string, err error) error {
	switch {
	case errors.Is(err, user.ErrUserNotFound):
		return perrors.NewErrNotFound("User not found", err)
	case errors.Is(err, project.ErrProjectNotFound):
		return perrors.NewErrNotFound("Project not found", err)
	case errors.Is(err, task.ErrTaskNotFound):
		return perrors.NewErrNotFound("Task not found", err)
	case errors.Is(err, project.ErrProjectForbidden):
		return perrors.NewErrForbidden("Unauthorized access to project", err)
	case errors.Is(err, task.ErrTaskForbidden):
		return perrors.NewErrForbidden("Unauthorized access to task", err)
	case errors.Is(err, user.ErrMissingIdentity):
		return perrors.NewErrBadRequest("Missing required fields: firebase_uid and email", err)
	case errors.Is(err, project.ErrProjectNameRequired):
		return perrors.NewErrBadRequest("Project name is required", err)
	case errors.Is(err, project.ErrInvalidColor):
		return perrors.NewErrBadRequest("Color must be a hex value like #F4D03F", err)
	case errors.Is(err, task.ErrTaskNameRequired):
		return perrors.NewErrBadRequest("Task name is required", err)
	case errors.Is(err, timeentry.ErrProjectRequired):
		return perrors.NewErrBadRequest("Missing required fields: project_id and start_time", err)
	case errors.Is(err, timeentry.ErrInvalidInterval),
		errors.Is(err, timeentry.ErrNegativeDuration),
		errors.Is(err, timeentry.ErrTaskNotInProject):
		return perrors.NewErrBadRequest(err.Error(), err)
	default:
		return perrors.NewErrInternalServerError(message, err)
	}
}
