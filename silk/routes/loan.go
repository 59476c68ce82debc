package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"silk/silk/config"
	"silk/silk/controllers"
	"silk/silk/middlewares"
	"silk/silk/services/loan"
	"silk/silk/types"
)

func LoanRoutes(ctrl *controllers.LoanController, cfg config.Config) chi.Router {
	r := chi.NewRouter()
	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.AuthMiddleware(cfg))
		// POST /loan/calculate : EMI quote plus tenure options
		gr.Post("/calculate", func(w http.ResponseWriter, r *http.Request) {
			var req types.LoanCalculationRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			result, err := ctrl.Calculate(r.Context(), req)
			if err != nil {
				if errors.Is(err, loan.ErrInvalidAmount) {
					writeError(w, http.StatusBadRequest, "Invalid loan amount")
					return
				}
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(result)
		})
	})
	return r
}
