package handlers

import "github.com/go-chi/chi/v5"

// Routes регистрирует все маршруты API
func (h *Handler) Routes(r chi.Router) {
	r.Get("/health", h.HealthCheck)

	r.Route("/projects", func(r chi.Router) {
		r.Get("/", h.SearchProjects) // GET /projects
		r.Post("/", h.PostProject)   // POST /projects

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetProjectByID)         // GET /projects/{id}
			r.Put("/", h.UpdateProjectByID)      // PUT /projects/{id}
			r.Delete("/", h.DeleteProjectByID)   // DELETE /projects/{id}
			r.Get("/stats", h.GetProjectSummary) // GET /projects/{id}/stats
		})
	})

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", h.SearchTasks)                // GET /tasks
		r.Post("/", h.PostTask)                  // POST /tasks
		r.Post("/bulk-status", h.BulkSetStatus) // POST /tasks/bulk-status

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetTaskByID)       // GET /tasks/{id}
			r.Put("/", h.UpdateTaskByID)    // PUT /tasks/{id}
			r.Delete("/", h.DeleteTaskByID) // DELETE /tasks/{id}

			r.Post("/complete", h.CompleteTask)     // POST /tasks/{id}/complete
			r.Post("/incomplete", h.IncompleteTask) // POST /tasks/{id}/incomplete
			r.Post("/toggle", h.ToggleTask)         // POST /tasks/{id}/toggle

			r.Post("/tags", h.AddTag)             // POST /tasks/{id}/tags
			r.Delete("/tags/{tag}", h.RemoveTag) // DELETE /tasks/{id}/tags/{tag}
			r.Post("/move", h.MoveTask)          // POST /tasks/{id}/move

			r.Get("/pomodoros", h.GetTaskPomodoros)     // GET /tasks/{id}/pomodoros
			r.Post("/pomodoros", h.PostPomodoro)        // POST /tasks/{id}/pomodoros
			r.Get("/pomodoros/next", h.GetNextPomodoro) // GET /tasks/{id}/pomodoros/next
		})
	})

	r.Route("/pomodoros/{id}", func(r chi.Router) {
		r.Get("/", h.GetPomodoroByID)      // GET /pomodoros/{id}
		r.Get("/timer", h.GetPomodoroTimer) // GET /pomodoros/{id}/timer

		r.Post("/start", h.StartPomodoro)       // POST /pomodoros/{id}/start
		r.Post("/pause", h.PausePomodoro)       // POST /pomodoros/{id}/pause
		r.Post("/resume", h.ResumePomodoro)     // POST /pomodoros/{id}/resume
		r.Post("/complete", h.CompletePomodoro) // POST /pomodoros/{id}/complete
		r.Post("/cancel", h.CancelPomodoro)     // POST /pomodoros/{id}/cancel
	})

	r.Route("/stats", func(r chi.Router) {
		r.Get("/", h.GetTaskStats)              // GET /stats
		r.Get("/pomodoros", h.GetPomodoroStats) // GET /stats/pomodoros
	})
}
