package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (app *application) routes() http.Handler {
	mux := chi.NewRouter()

	mux.NotFound(app.notFound)
	mux.MethodNotAllowed(app.methodNotAllowed)

	mux.Use(app.traceID)
	mux.Use(app.logAccess)
	mux.Use(app.recoverPanic)

	mux.Use(app.CORS)

	mux.Get("/", app.handleHealth)
	mux.Get("/api/v1/status", app.handleStatus)

	mux.Get("/api/v1/candidates", app.handleListCandidates)
	mux.Get("/api/v1/candidates/{candidateId}", app.handleGetCandidate)
	mux.Post("/api/v1/candidates", app.handleCreateCandidate)
	mux.Put("/api/v1/candidates/{candidateId}", app.handleUpdateCandidate)
	mux.Put("/api/v1/candidates/{candidateId}/status", app.handleUpdateCandidateStatus)

	mux.Get("/api/v1/employees", app.handleListEmployees)
	mux.Get("/api/v1/employees/{employeeId}", app.handleGetEmployee)
	mux.Post("/api/v1/employees", app.handleCreateEmployee)
	mux.Put("/api/v1/employees/{employeeId}", app.handleUpdateEmployee)

	mux.Get("/api/v1/sites", app.handleListSites)
	mux.Post("/api/v1/sites", app.handleCreateSite)
	mux.Put("/api/v1/sites/{siteId}", app.handleUpdateSite)
	mux.Delete("/api/v1/sites/{siteId}", app.handleDeleteSite)

	mux.Get("/api/v1/projects", app.handleListProjects)
	mux.Post("/api/v1/projects", app.handleCreateProject)
	mux.Put("/api/v1/projects/{projectId}", app.handleUpdateProject)
	mux.Delete("/api/v1/projects/{projectId}", app.handleDeleteProject)

	mux.Get("/api/v1/shifts", app.handleListShifts)
	mux.Post("/api/v1/shifts", app.handleCreateShift)
	mux.Put("/api/v1/shifts/{shiftId}", app.handleUpdateShift)
	mux.Delete("/api/v1/shifts/{shiftId}", app.handleDeleteShift)

	mux.Get("/api/v1/employer", app.handleGetEmployer)
	mux.Put("/api/v1/employer", app.handleUpdateEmployer)

	mux.Get("/api/v1/tax-regimes", app.handleListTaxRegimes)
	mux.Get("/api/v1/employer/regime", app.handleCurrentRegime)
	mux.Get("/api/v1/employer/regime/history", app.handleRegimeHistory)
	mux.Post("/api/v1/employer/regime", app.handleTransitionRegime)

	app.logger.Debug("routes configured", "routes", chiRoutesToStrings(mux.Routes()))

	return mux
}

func chiRoutesToStrings(routes []chi.Route) []string {
	parsedRoutes := make([]string, 0, len(routes))
	for _, route := range routes {
		parsedRoutes = append(parsedRoutes, route.Pattern)
	}
	return parsedRoutes
}
