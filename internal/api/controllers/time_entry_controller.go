package controllers

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	"github.com/curaious/ticktrack/internal/perrors"
	"github.com/curaious/ticktrack/internal/services"
	"github.com/curaious/ticktrack/internal/services/timeentry"
)

func RegisterTimeEntryRoutes(r *router.Router, svc *services.Services, auth SubjectResolver) {
	// Record a time entry
	r.POST("/time-entries", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		me, ok := caller(ctx, stdCtx, svc, auth)
		if !ok {
			return
		}

		var body timeentry.CreateTimeEntryRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Failed to create time entry", perrors.NewErrBadRequest("Invalid request body", err))
			return
		}
		body.UserID = me.ID

		created, err := svc.TimeEntry.Create(stdCtx, &body)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to create time entry", translate("Failed to create time entry", err))
			return
		}

		writeOK(ctx, stdCtx, "Time entry created successfully", "timeEntry", created)
	})

	// Caller's entries, newest first
	r.GET("/time-entries", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		me, ok := caller(ctx, stdCtx, svc, auth)
		if !ok {
			return
		}

		entries, err := svc.TimeEntry.ListForUser(stdCtx, me.ID)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to retrieve time entries", translate("Failed to retrieve time entries", err))
			return
		}

		writeOK(ctx, stdCtx, "", "timeEntries", entries)
	})
}
