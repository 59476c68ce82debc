package routes

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"silk/silk/config"
	"silk/silk/controllers"
	"silk/silk/middlewares"
	"silk/silk/types"
)

func SanctionRoutes(ctrl *controllers.SanctionController, cfg config.Config) chi.Router {
	r := chi.NewRouter()
	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.AuthMiddleware(cfg))
		// POST /sanction/generate : render and archive the approval letter
		gr.Post("/generate", func(w http.ResponseWriter, r *http.Request) {
			var req types.SanctionRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			userID := r.Context().Value(middlewares.UserIDKey).(uuid.UUID)
			email, _ := r.Context().Value(middlewares.UserEmailKey).(string)

			resp, err := ctrl.Generate(r.Context(), userID, email, req)
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(resp)
		})
	})
	return r
}
