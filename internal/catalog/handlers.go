package catalog

import (
	"net/http"
	"sort"

	"github.com/seatwise/quote-api/internal/common"
	"github.com/seatwise/quote-api/internal/pricing"
)

// Handler exposes the read-only pricing catalog so form clients can render
// tier cards, add-on options, and discount messaging without hardcoding
// prices.
type Handler struct {
	Catalog  pricing.Catalog
	Currency string
}

type tierPayload struct {
	ID          pricing.Tier  `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Price       pricing.Money `json:"price"`
}

type addOnPayload struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Price       pricing.Money `json:"price"`
}

type courseRatePayload struct {
	Tier    pricing.Tier `json:"tier"`
	RateBps int          `json:"rateBps"`
}

// Get renders the full catalog. Tiers and course rates are emitted in
// display order so clients get a stable layout.
func (h Handler) Get(w http.ResponseWriter, _ *http.Request) {
	tiers := make([]tierPayload, 0, 3)
	for _, t := range pricing.Tiers() {
		info := h.Catalog.Tiers[t]
		tiers = append(tiers, tierPayload{
			ID:          t,
			Name:        info.Name,
			Description: info.Description,
			Price:       info.Price,
		})
	}
	addOns := make([]addOnPayload, 0, len(h.Catalog.AddOns))
	for id, info := range h.Catalog.AddOns {
		addOns = append(addOns, addOnPayload{
			ID:          id,
			Name:        info.Name,
			Description: info.Description,
			Price:       info.Price,
		})
	}
	sort.Slice(addOns, func(i, j int) bool { return addOns[i].ID < addOns[j].ID })
	rates := make([]courseRatePayload, 0, 2)
	for _, t := range pricing.CourseTiers() {
		rates = append(rates, courseRatePayload{Tier: t, RateBps: h.Catalog.CourseRateBps[t]})
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"currency":        h.Currency,
			"tiers":           tiers,
			"addOns":          addOns,
			"courseDiscounts": rates,
			"volumeSchedule":  h.Catalog.VolumeSchedule,
		},
	})
}
