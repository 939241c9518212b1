package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"rentwheels-backend/internal/security"
	"rentwheels-backend/internal/service"
)

// NewRouter wires the rental and waiver endpoints behind the auth
// middleware. Waiver writes additionally require the administrator role.
func NewRouter(rentals service.RentalService, waivers service.WaiverService, tokens security.TokenManager) *mux.Router {
	rentalHandler := NewRentalHandler(rentals)
	waiverHandler := NewWaiverHandler(waivers)
	auth := NewAuthMiddleware(tokens)

	router := mux.NewRouter()
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(auth.Handler)

	api.HandleFunc("/rentals", rentalHandler.Request).Methods("POST")
	api.HandleFunc("/rentals", rentalHandler.List).Methods("GET")
	api.HandleFunc("/rentals/{id}", rentalHandler.Get).Methods("GET")
	api.HandleFunc("/rentals/{id}/confirm", RequireAdmin(rentalHandler.Confirm)).Methods("POST")
	api.HandleFunc("/rentals/{id}/pickup", rentalHandler.Pickup).Methods("POST")
	api.HandleFunc("/rentals/{id}/return", rentalHandler.Return).Methods("POST")
	api.HandleFunc("/rentals/{id}/cancel", rentalHandler.Cancel).Methods("POST")

	api.HandleFunc("/cars/{id}/rentals", RequireAdmin(rentalHandler.ListByCar)).Methods("GET")

	api.HandleFunc("/rentals/{id}/waivers/full", RequireAdmin(waiverHandler.WaiveFull)).Methods("POST")
	api.HandleFunc("/rentals/{id}/waivers/partial", RequireAdmin(waiverHandler.WaivePartial)).Methods("POST")
	api.HandleFunc("/rentals/{id}/waivers", RequireAdmin(waiverHandler.History)).Methods("GET")

	return router
}
