package http

import (
	"encoding/json"
	"net/http"

	"rentwheels-backend/internal/domain"
	"rentwheels-backend/internal/service"
)

// WaiverHandler exposes penalty waiver administration over HTTP
type WaiverHandler struct {
	waivers service.WaiverService
}

func NewWaiverHandler(waivers service.WaiverService) *WaiverHandler {
	return &WaiverHandler{waivers: waivers}
}

type waiverBody struct {
	AmountCents int64  `json:"amount_cents,omitempty"`
	Reason      string `json:"reason"`
}

func (h *WaiverHandler) WaiveFull(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var body waiverBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, domain.NewValidation("invalid request body"))
		return
	}

	claims := ClaimsFromContext(r.Context())
	waiver, err := h.waivers.WaiveFullPenalty(r.Context(), id, body.Reason, claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, waiver)
}

func (h *WaiverHandler) WaivePartial(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var body waiverBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, domain.NewValidation("invalid request body"))
		return
	}

	claims := ClaimsFromContext(r.Context())
	waiver, err := h.waivers.WaivePartialPenalty(r.Context(), id, body.AmountCents, body.Reason, claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, waiver)
}

func (h *WaiverHandler) History(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	history, err := h.waivers.GetPenaltyHistory(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"waivers": history})
}
