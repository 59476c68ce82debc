package routes

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"silk/silk/config"
	"silk/silk/controllers"
	"silk/silk/middlewares"
	"silk/silk/sources/psql/models"
)

func InsightsRoutes(ctrl *controllers.InsightsController, cfg config.Config) chi.Router {
	r := chi.NewRouter()
	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.AuthMiddleware(cfg))
		// GET /insights/profile : customer profile, created on first use
		gr.Get("/profile", func(w http.ResponseWriter, r *http.Request) {
			userID := r.Context().Value(middlewares.UserIDKey).(uuid.UUID)
			email, _ := r.Context().Value(middlewares.UserEmailKey).(string)

			profile, err := ctrl.GetProfile(r.Context(), userID, email)
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]*models.CustomerProfile{"profile": profile})
		})
	})
	return r
}
