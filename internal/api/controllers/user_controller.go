package controllers

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	"github.com/curaious/ticktrack/internal/perrors"
	"github.com/curaious/ticktrack/internal/services"
	"github.com/curaious/ticktrack/internal/services/user"
)

func RegisterUserRoutes(r *router.Router, svc *services.Services, auth SubjectResolver) {
	// Register user, idempotent per firebase_uid
	r.POST("/users", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		var body user.CreateUserRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Failed to create user", perrors.NewErrBadRequest("Invalid request body", err))
			return
		}

		u, created, err := svc.User.Register(stdCtx, &body)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to create user", translate("Failed to create user", err))
			return
		}

		msg := "User already exists"
		if created {
			msg = "User created successfully"
		}
		writeOK(ctx, stdCtx, msg, "user", u)
	})

	// Lookup by external subject id
	r.GET("/users", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		uid, err := requireStringQuery(ctx, "firebase_uid")
		if err != nil {
			writeError(ctx, stdCtx, "Failed to retrieve user", perrors.NewErrBadRequest("Missing firebase_uid parameter", err))
			return
		}

		u, err := svc.User.GetByFirebaseUID(stdCtx, uid)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to retrieve user", translate("Failed to retrieve user", err))
			return
		}

		writeOK(ctx, stdCtx, "", "user", u)
	})

	// Update caller's preferences
	r.PUT("/users/me", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		me, ok := caller(ctx, stdCtx, svc, auth)
		if !ok {
			return
		}

		var body user.UpdateUserRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Failed to update user", perrors.NewErrBadRequest("Invalid request body", err))
			return
		}

		updated, err := svc.User.Update(stdCtx, me.ID, &body)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to update user", translate("Failed to update user", err))
			return
		}

		writeOK(ctx, stdCtx, "User updated successfully", "user", updated)
	})

	// Delete caller and, through cascades, everything they own
	r.DELETE("/users/me", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		me, ok := caller(ctx, stdCtx, svc, auth)
		if !ok {
			return
		}

		if err := svc.User.Delete(stdCtx, me.ID); err != nil {
			writeError(ctx, stdCtx, "Failed to delete user", translate("Failed to delete user", err))
			return
		}

		writeOK(ctx, stdCtx, "User deleted successfully", "", nil)
	})
}
