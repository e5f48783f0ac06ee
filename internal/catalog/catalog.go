package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	validator "github.com/go-playground/validator/v10"

	"github.com/seatwise/quote-api/internal/pricing"
)

// AddOnTeamPortal is the only add-on in the current catalog.
const AddOnTeamPortal = "teamPortal"

// Default returns the built-in pricing catalog.
func Default() pricing.Catalog {
	return pricing.Catalog{
		Tiers: map[pricing.Tier]pricing.TierInfo{
			pricing.Tier1: {
				Price:       75_00,
				Name:        "Tier 1: Awareness",
				Description: "Basic access to up to $50 courses",
			},
			pricing.Tier2: {
				Price:       149_00,
				Name:        "Tier 2: Professional",
				Description: "Competent Person & Technical Training up to $150",
			},
			pricing.Tier3: {
				Price:       249_00,
				Name:        "Tier 3: Total Access",
				Description: "Full catalog including OSHA 30, HAZWOPER, DOT Haz",
			},
		},
		AddOns: map[string]pricing.AddOnInfo{
			AddOnTeamPortal: {
				Price:       500_00,
				Name:        "Team Portal",
				Description: "Advanced team management features",
			},
		},
		CourseRateBps: map[pricing.Tier]int{
			pricing.Tier1: 3000,
			pricing.Tier2: 5000,
		},
		VolumeSchedule: []pricing.VolumeBreak{
			{MinSeats: 50, RateBps: 2500},
			{MinSeats: 100, RateBps: 3500},
			{MinSeats: 250, RateBps: 4500},
			{MinSeats: 500, RateBps: 6000},
			{MinSeats: 1000, RateBps: 7500},
		},
	}
}

// Load returns the catalog to run with. When path is empty the built-in
// defaults are used as-is; otherwise the JSON file at path is merged
// field-wise over the defaults so deployments can override a single price
// without restating the rest of the entry. The volume schedule, when
// present, replaces the default schedule wholesale. The result is
// validated either way.
func Load(path string) (pricing.Catalog, error) {
	cat := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return pricing.Catalog{}, fmt.Errorf("read catalog file: %w", err)
		}
		var override catalogOverride
		if err := json.Unmarshal(data, &override); err != nil {
			return pricing.Catalog{}, fmt.Errorf("decode catalog file: %w", err)
		}
		override.apply(&cat)
	}
	if err := Validate(cat); err != nil {
		return pricing.Catalog{}, err
	}
	return cat, nil
}

type catalogOverride struct {
	Tiers          map[pricing.Tier]entryOverride `json:"tiers"`
	AddOns         map[string]entryOverride       `json:"addOns"`
	CourseRateBps  map[pricing.Tier]int           `json:"courseRateBps"`
	VolumeSchedule []pricing.VolumeBreak          `json:"volumeSchedule"`
}

// entryOverride carries partial tier or add-on fields; nil means the
// default value is kept.
type entryOverride struct {
	Price       *pricing.Money `json:"price"`
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
}

func (o catalogOverride) apply(cat *pricing.Catalog) {
	for t, entry := range o.Tiers {
		info := cat.Tiers[t]
		entry.applyTo(&info.Price, &info.Name, &info.Description)
		cat.Tiers[t] = info
	}
	for id, entry := range o.AddOns {
		info := cat.AddOns[id]
		entry.applyTo(&info.Price, &info.Name, &info.Description)
		cat.AddOns[id] = info
	}
	for t, rate := range o.CourseRateBps {
		cat.CourseRateBps[t] = rate
	}
	if o.VolumeSchedule != nil {
		cat.VolumeSchedule = o.VolumeSchedule
	}
}

func (e entryOverride) applyTo(price *pricing.Money, name, description *string) {
	if e.Price != nil {
		*price = *e.Price
	}
	if e.Name != nil {
		*name = *e.Name
	}
	if e.Description != nil {
		*description = *e.Description
	}
}

// Validate checks the structural soundness of a catalog: all three tiers
// priced, course rates only on eligible tiers, and a volume schedule with
// unique thresholds.
func Validate(cat pricing.Catalog) error {
	if err := validator.New().Struct(cat); err != nil {
		return fmt.Errorf("invalid catalog: %w", err)
	}
	for _, t := range pricing.Tiers() {
		if _, ok := cat.Tiers[t]; !ok {
			return fmt.Errorf("catalog missing tier %q", t)
		}
	}
	eligible := map[pricing.Tier]bool{}
	for _, t := range pricing.CourseTiers() {
		eligible[t] = true
		if _, ok := cat.CourseRateBps[t]; !ok {
			return fmt.Errorf("catalog missing course rate for tier %q", t)
		}
	}
	for t := range cat.CourseRateBps {
		if !eligible[t] {
			return fmt.Errorf("course rate configured for ineligible tier %q", t)
		}
	}
	seen := map[int]bool{}
	for _, b := range cat.VolumeSchedule {
		if seen[b.MinSeats] {
			return fmt.Errorf("duplicate volume threshold %d", b.MinSeats)
		}
		seen[b.MinSeats] = true
	}
	if len(cat.VolumeSchedule) == 0 {
		return errors.New("catalog has no volume schedule")
	}
	return nil
}
