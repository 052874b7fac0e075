package api

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the task endpoints on the given router.
func (h *TaskHandler) RegisterRoutes(r chi.Router) {
	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", h.ListTasks)
		r.Post("/", h.CreateTask)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetTask)
			r.Put("/", h.UpdateTask)
			r.Delete("/", h.DeleteTask)
			r.Post("/delegate", h.DelegateTask)
			r.Post("/complete", h.CompleteTask)
		})
	})
}
