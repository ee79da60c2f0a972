package response

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	json "github.com/bytedance/sonic"
	"github.com/valyala/fasthttp"

	"github.com/curaious/ticktrack/internal/perrors"
)

// Response renders as {"success": bool, <Key>: Data, "message": ..., "error": ...}.
type Response[T any] struct {
	ctx          context.Context
	ErrorDetails *perrors.Err
	Message      string
	Key          string
	Data         T
	Status       int
}

func NewResponse[T any](ctx context.Context, msg string, key string, data T) *Response[T] {
	return &Response[T]{
		ctx:     ctx,
		Message: msg,
		Key:     key,
		Data:    data,
		Status:  http.StatusOK,
	}
}

// WithError sets the error field for the response
func (r *Response[T]) WithError(err error) *Response[T] {
	// Set http status from error if available
	var perr perrors.Err
	if !errors.As(err, &perr) {
		perr = perrors.NewErrInternalServerError(r.Message, err).(perrors.Err)
	}

	r.Status = perr.HttpStatus()
	r.ErrorDetails = &perr
	perr.Print(r.ctx)

	return r
}

// WithStatus will set the HTTP response status code.
//
// This is not a preferred way of setting status code.
//   - Try to use perrors.Err embedded with a status code whenever possible.
//   - Default is http.StatusOK and it need not be set explicitly.
func (r *Response[T]) WithStatus(code int) *Response[T] {
	r.Status = code

	return r
}

// Body builds the JSON envelope.
func (r *Response[T]) Body() map[string]any {
	body := map[string]any{
		"success": r.ErrorDetails == nil,
	}

	if r.Message != "" {
		body["message"] = r.Message
	}

	if r.ErrorDetails != nil {
		body["error"] = r.ErrorDetails.Message
		return body
	}

	if r.Key != "" {
		body[r.Key] = r.Data
	}

	return body
}

// Write will set the `content-type` to `application/json` and write the response to the fasthttp context.
func (r *Response[T]) Write(ctx *fasthttp.RequestCtx) {
	ctx.Response.Header.Set("content-type", "application/json")
	ctx.SetStatusCode(r.Status)

	body, err := json.Marshal(r.Body())
	if err != nil {
		slog.ErrorContext(r.ctx, "Unable to json encode response", slog.Any("error", err))
		ctx.SetStatusCode(http.StatusInternalServerError)
		return
	}

	ctx.SetBody(body)
}
