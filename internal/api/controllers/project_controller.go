package controllers

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	"github.com/curaious/ticktrack/internal/perrors"
	"github.com/curaious/ticktrack/internal/services"
	"github.com/curaious/ticktrack/internal/services/project"
)

func RegisterProjectRoutes(r *router.Router, svc *services.Services, auth SubjectResolver) {
	// Create project
	r.POST("/projects", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		me, ok := caller(ctx, stdCtx, svc, auth)
		if !ok {
			return
		}

		var body project.CreateProjectRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Failed to create project", perrors.NewErrBadRequest("Invalid request body", err))
			return
		}
		body.UserID = me.ID

		created, err := svc.Project.Create(stdCtx, &body)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to create project", translate("Failed to create project", err))
			return
		}

		writeOK(ctx, stdCtx, "Project created successfully", "project", created)
	})

	// List active projects with totals
	r.GET("/projects", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		me, ok := caller(ctx, stdCtx, svc, auth)
		if !ok {
			return
		}

		projects, err := svc.Project.ListForUser(stdCtx, me.ID)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to retrieve projects", translate("Failed to retrieve projects", err))
			return
		}

		writeOK(ctx, stdCtx, "", "projects", projects)
	})

	// Get project
	r.GET("/projects/{id}", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		me, ok := caller(ctx, stdCtx, svc, auth)
		if !ok {
			return
		}

		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Failed to retrieve project", perrors.NewErrNotFound("Project not found", err))
			return
		}

		p, err := svc.Project.GetOwnedSummary(stdCtx, me.ID, id)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to retrieve project", translate("Failed to retrieve project", err))
			return
		}

		writeOK(ctx, stdCtx, "", "project", p)
	})

	// Update project
	r.PUT("/projects/{id}", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		me, ok := caller(ctx, stdCtx, svc, auth)
		if !ok {
			return
		}

		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Failed to update project", perrors.NewErrNotFound("Project not found", err))
			return
		}

		var body project.UpdateProjectRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Failed to update project", perrors.NewErrBadRequest("Invalid request body", err))
			return
		}
		body.ClearDescription = explicitNull(ctx.PostBody(), "description")

		updated, err := svc.Project.Update(stdCtx, me.ID, id, &body)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to update project", translate("Failed to update project", err))
			return
		}

		writeOK(ctx, stdCtx, "Project updated successfully", "project", updated)
	})

	// Soft delete project
	r.DELETE("/projects/{id}", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		me, ok := caller(ctx, stdCtx, svc, auth)
		if !ok {
			return
		}

		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Failed to delete project", perrors.NewErrNotFound("Project not found", err))
			return
		}

		if err := svc.Project.Delete(stdCtx, me.ID, id); err != nil {
			writeError(ctx, stdCtx, "Failed to delete project", translate("Failed to delete project", err))
			return
		}

		writeOK(ctx, stdCtx, "Project deleted successfully", "", nil)
	})

	// Tasks of a project
	r.GET("/projects/{id}/tasks", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		me, ok := caller(ctx, stdCtx, svc, auth)
		if !ok {
			return
		}

		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Failed to retrieve tasks", perrors.NewErrNotFound("Project not found", err))
			return
		}

		tasks, err := svc.Task.ListForProject(stdCtx, me.ID, id)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to retrieve tasks", translate("Failed to retrieve tasks", err))
			return
		}

		writeOK(ctx, stdCtx, "", "tasks", tasks)
	})

	// Task completion counts of a project
	r.GET("/projects/{id}/tasks/stats", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		me, ok := caller(ctx, stdCtx, svc, auth)
		if !ok {
			return
		}

		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Failed to retrieve task stats", perrors.NewErrNotFound("Project not found", err))
			return
		}

		stats, err := svc.Task.Stats(stdCtx, me.ID, id)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to retrieve task stats", translate("Failed to retrieve task stats", err))
			return
		}

		writeOK(ctx, stdCtx, "", "stats", stats)
	})

	// Latest time entries of a project, filtered to the caller in the query
	r.GET("/projects/{id}/time-entries", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		me, ok := caller(ctx, stdCtx, svc, auth)
		if !ok {
			return
		}

		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Failed to retrieve time entries", perrors.NewErrNotFound("Project not found", err))
			return
		}

		entries, err := svc.TimeEntry.ListForProject(stdCtx, me.ID, id)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to retrieve time entries", translate("Failed to retrieve time entries", err))
			return
		}

		writeOK(ctx, stdCtx, "", "timeEntries", entries)
	})
}
