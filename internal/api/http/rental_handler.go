package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"rentwheels-backend/internal/domain"
	"rentwheels-backend/internal/service"
)

// RentalHandler exposes the rental lifecycle over HTTP
type RentalHandler struct {
	rentals service.RentalService
}

func NewRentalHandler(rentals service.RentalService) *RentalHandler {
	return &RentalHandler{rentals: rentals}
}

type requestRentalBody struct {
	CarID     int64  `json:"car_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type noteBody struct {
	Notes string `json:"notes"`
}

type listRentalsResponse struct {
	Rentals []domain.Rental `json:"rentals"`
	Total   int32           `json:"total"`
}

func (h *RentalHandler) Request(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())

	var body requestRentalBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, domain.NewValidation("invalid request body"))
		return
	}

	rental, err := h.rentals.RequestRental(r.Context(), claims.UserID, body.CarID, body.StartDate, body.EndDate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rental)
}

func (h *RentalHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	rental, err := h.rentals.ConfirmRental(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) Pickup(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var body noteBody
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&body)
	}

	rental, err := h.rentals.PickupRental(r.Context(), id, body.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) Return(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var body noteBody
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&body)
	}

	rental, err := h.rentals.ReturnRental(r.Context(), id, body.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	claims := ClaimsFromContext(r.Context())
	rental, err := h.rentals.CancelRental(r.Context(), id, claims.UserID, claims.IsAdmin())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	rental, err := h.rentals.GetRental(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	claims := ClaimsFromContext(r.Context())
	if rental.RenterID != claims.UserID && !claims.IsAdmin() {
		writeError(w, domain.NewForbidden("rental belongs to another renter"))
		return
	}
	writeJSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())

	page := queryInt32(r, "page", 1)
	pageSize := queryInt32(r, "page_size", 20)

	rentals, total, err := h.rentals.ListRentals(r.Context(), claims.UserID, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listRentalsResponse{Rentals: rentals, Total: total})
}

// ListByCar returns the full rental history of one car, terminal records
// included. Admin only.
func (h *RentalHandler) ListByCar(w http.ResponseWriter, r *http.Request) {
	carID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	page := queryInt32(r, "page", 1)
	pageSize := queryInt32(r, "page_size", 20)

	rentals, total, err := h.rentals.ListCarRentals(r.Context(), carID, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listRentalsResponse{Rentals: rentals, Total: total})
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidation("invalid " + name + " path parameter")
	}
	return id, nil
}

func queryInt32(r *http.Request, name string, fallback int32) int32 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || v <= 0 {
		return fallback
	}
	return int32(v)
}
