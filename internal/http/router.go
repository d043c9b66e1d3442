package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"ai-transcript-simulator/internal/app"
)

type requestAccepted struct {
	RequestID  string `json:"requestId"`
	QuestionID string `json:"questionId,omitempty"`
}

// NewRouter constructs the HTTP router for the service.
func NewRouter(application *app.Application) http.Handler {
	r := chi.NewRouter()

	// Basic middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// Health endpoints
	r.Get("/v1/liveness", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/v1/readiness", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	// API routes
	r.Route("/v1", func(r chi.Router) {
		r.Handle("/ws", application.Hub)

		// Emissions outlive the request, so they run on the application context.
		r.Post("/summary", func(w http.ResponseWriter, _ *http.Request) {
			id := application.RequestSummary(application.Context())
			writeAccepted(w, requestAccepted{RequestID: id})
		})
		r.Post("/questions/{questionId}/answer", func(w http.ResponseWriter, r *http.Request) {
			questionID := chi.URLParam(r, "questionId")
			id := application.RequestAnswer(application.Context(), questionID)
			writeAccepted(w, requestAccepted{RequestID: id, QuestionID: questionID})
		})
	})

	return r
}

func writeAccepted(w http.ResponseWriter, body requestAccepted) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(body)
}
