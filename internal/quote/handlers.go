package quote

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/seatwise/quote-api/internal/common"
	"github.com/seatwise/quote-api/internal/pricing"
)

// Handler exposes the quote service over HTTP.
type Handler struct {
	Svc *Service
}

type quoteRequest struct {
	Seats   pricing.Seats                     `json:"seats"`
	AddOns  map[string]bool                   `json:"addOns"`
	Courses map[pricing.Tier][]pricing.Course `json:"courses"`
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (pricing.Input, bool) {
	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return pricing.Input{}, false
	}
	return pricing.Input{Seats: req.Seats, AddOns: req.AddOns, Courses: req.Courses}, true
}

// Preview recomputes the quote and returns the full snapshot.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decode(w, r)
	if !ok {
		return
	}
	q, err := h.Svc.Preview(r.Context(), in)
	if err != nil {
		h.writeError(w, err, "previewing")
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": q})
}

// Export renders the quote as a downloadable plain-text document.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decode(w, r)
	if !ok {
		return
	}
	q, doc, err := h.Svc.Export(r.Context(), in)
	if err != nil {
		h.writeError(w, err, "exporting")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="quote-`+q.ID+`.txt"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

// SendToSales hands the quote off to the sales team and returns a reference.
func (h *Handler) SendToSales(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decode(w, r)
	if !ok {
		return
	}
	handoff, err := h.Svc.SendToSales(r.Context(), in)
	if err != nil {
		h.writeError(w, err, "sending")
		return
	}
	common.JSON(w, http.StatusAccepted, map[string]any{"data": handoff})
}

func (h *Handler) writeError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, ErrDuplicateCourse):
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	case errors.Is(err, ErrEmptyQuote):
		common.JSONError(w, http.StatusUnprocessableEntity, "EMPTY_QUOTE",
			"add at least one seat before "+action+" a quote", nil)
	case errors.Is(err, ErrHandoffFailed):
		common.JSONError(w, http.StatusBadGateway, "SALES_HANDOFF_FAILED",
			"the sales team could not be reached; please retry", nil)
	case errors.Is(err, ErrRecomputeFailed):
		common.JSONError(w, http.StatusInternalServerError, "RECALCULATION_FAILED",
			"unable to recalculate totals; please retry", nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "internal server error", nil)
	}
}
