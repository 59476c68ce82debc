package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"silk/silk/config"
	"silk/silk/controllers"
	"silk/silk/middlewares"
	"silk/silk/sources/psql/dao"
)

func ConversationRoutes(ctrl *controllers.ConversationController, cfg config.Config) chi.Router {
	r := chi.NewRouter()
	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.AuthMiddleware(cfg))
		// POST /conversations/ : open a conversation for the caller
		gr.Post("/", func(w http.ResponseWriter, r *http.Request) {
			userID := r.Context().Value(middlewares.UserIDKey).(uuid.UUID)
			conv, err := ctrl.Create(r.Context(), userID)
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(conv)
		})
		// GET /conversations/ : list the caller's conversations
		gr.Get("/", func(w http.ResponseWriter, r *http.Request) {
			userID := r.Context().Value(middlewares.UserIDKey).(uuid.UUID)
			convs, err := ctrl.List(r.Context(), userID)
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(convs)
		})
		// GET /conversations/{conversation_id}/messages : transcript
		gr.Get("/{conversation_id}/messages", func(w http.ResponseWriter, r *http.Request) {
			userID := r.Context().Value(middlewares.UserIDKey).(uuid.UUID)
			convID, err := uuid.Parse(chi.URLParam(r, "conversation_id"))
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid conversation id")
				return
			}
			msgs, err := ctrl.GetMessages(r.Context(), userID, convID)
			if err != nil {
				if errors.Is(err, dao.ErrConversationForbidden) {
					writeError(w, http.StatusNotFound, err.Error())
					return
				}
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(msgs)
		})
	})
	return r
}
