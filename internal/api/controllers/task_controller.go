package controllers

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	"github.com/curaious/ticktrack/internal/perrors"
	"github.com/curaious/ticktrack/internal/services"
	"github.com/curaious/ticktrack/internal/services/task"
)

func RegisterTaskRoutes(r *router.Router, svc *services.Services, auth SubjectResolver) {
	// Create task under an owned project
	r.POST("/tasks", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		me, ok := caller(ctx, stdCtx, svc, auth)
		if !ok {
			return
		}

		var body task.CreateTaskRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Failed to create task", perrors.NewErrBadRequest("Invalid request body", err))
			return
		}

		created, err := svc.Task.Create(stdCtx, me.ID, &body)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to create task", translate("Failed to create task", err))
			return
		}

		writeOK(ctx, stdCtx, "Task created successfully", "task", created)
	})

	// All of the caller's tasks across projects
	r.GET("/tasks", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		me, ok := caller(ctx, stdCtx, svc, auth)
		if !ok {
			return
		}

		tasks, err := svc.Task.ListForUser(stdCtx, me.ID)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to retrieve tasks", translate("Failed to retrieve tasks", err))
			return
		}

		writeOK(ctx, stdCtx, "", "tasks", tasks)
	})

	r.GET("/tasks/{id}", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		me, ok := caller(ctx, stdCtx, svc, auth)
		if !ok {
			return
		}

		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Failed to retrieve task", perrors.NewErrNotFound("Task not found", err))
			return
		}

		t, err := svc.Task.GetOwned(stdCtx, me.ID, id)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to retrieve task", translate("Failed to retrieve task", err))
			return
		}

		writeOK(ctx, stdCtx, "", "task", t)
	})

	r.PUT("/tasks/{id}", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		me, ok := caller(ctx, stdCtx, svc, auth)
		if !ok {
			return
		}

		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Failed to update task", perrors.NewErrNotFound("Task not found", err))
			return
		}

		var body task.UpdateTaskRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Failed to update task", perrors.NewErrBadRequest("Invalid request body", err))
			return
		}
		body.ClearDescription = explicitNull(ctx.PostBody(), "description")

		updated, err := svc.Task.Update(stdCtx, me.ID, id, &body)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to update task", translate("Failed to update task", err))
			return
		}

		writeOK(ctx, stdCtx, "Task updated successfully", "task", updated)
	})

	// Hard delete
	r.DELETE("/tasks/{id}", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		me, ok := caller(ctx, stdCtx, svc, auth)
		if !ok {
			return
		}

		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Failed to delete task", perrors.NewErrNotFound("Task not found", err))
			return
		}

		if err := svc.Task.Delete(stdCtx, me.ID, id); err != nil {
			writeError(ctx, stdCtx, "Failed to delete task", translate("Failed to delete task", err))
			return
		}

		writeOK(ctx, stdCtx, "Task deleted successfully", "", nil)
	})
}
