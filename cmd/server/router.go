package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/taskmax/taskmax-api/internal/api"
	apimiddleware "github.com/taskmax/taskmax-api/internal/api/middleware"
	"github.com/taskmax/taskmax-api/internal/service"
)

// newRouter builds the HTTP routing tree for the API server.
func newRouter(taskService service.TaskService, logger *slog.Logger) http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(apimiddleware.TraceMiddleware)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("ok")); err != nil {
			logger.Error("failed to write health response", "error", err)
		}
	})

	taskHandler := api.NewTaskHandler(taskService, logger)
	router.Route("/api", func(r chi.Router) {
		taskHandler.RegisterRoutes(r)
	})

	return router
}
