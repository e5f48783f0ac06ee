package pricing

// Money represents a monetary value stored in minor units.
type Money = int64

// Tier identifies one of the three fixed subscription tiers.
type Tier string

const (
	Tier1 Tier = "tier1"
	Tier2 Tier = "tier2"
	Tier3 Tier = "tier3"
)

// Tiers returns all tiers in display order.
func Tiers() []Tier { return []Tier{Tier1, Tier2, Tier3} }

// CourseTiers returns the tiers eligible for discounted pay-as-you-go
// course purchases. Tier 3 has full catalog access and is never eligible.
func CourseTiers() []Tier { return []Tier{Tier1, Tier2} }

// TierInfo describes a single subscription tier.
type TierInfo struct {
	Price       Money  `json:"price" validate:"gt=0"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// AddOnInfo describes an optional fixed-price annual add-on.
type AddOnInfo struct {
	Price       Money  `json:"price" validate:"gt=0"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// VolumeBreak maps an inclusive seat-count threshold to a discount rate in
// basis points.
type VolumeBreak struct {
	MinSeats int `json:"minSeats" validate:"gt=0"`
	RateBps  int `json:"rateBps" validate:"gt=0,lte=10000"`
}

// Catalog holds the immutable pricing tables the engine computes against.
// It is loaded once at startup and never mutated.
type Catalog struct {
	Tiers          map[Tier]TierInfo    `json:"tiers" validate:"len=3,dive"`
	AddOns         map[string]AddOnInfo `json:"addOns" validate:"dive"`
	CourseRateBps  map[Tier]int         `json:"courseRateBps" validate:"dive,gte=0,lte=10000"`
	VolumeSchedule []VolumeBreak        `json:"volumeSchedule" validate:"dive"`
}

// DiscountRateBps resolves the volume discount for the given seat total.
// Thresholds are inclusive lower bounds; the highest threshold at or below
// totalSeats wins, regardless of schedule ordering.
func (c Catalog) DiscountRateBps(totalSeats int) int {
	rate := 0
	matched := -1
	for _, b := range c.VolumeSchedule {
		if totalSeats >= b.MinSeats && b.MinSeats > matched {
			rate = b.RateBps
			matched = b.MinSeats
		}
	}
	return rate
}

// FirstVolumeBreak returns the lowest seat threshold in the schedule, or 0
// when no schedule is configured. Used to tell buyers how far they are from
// the first discount.
func (c Catalog) FirstVolumeBreak() int {
	lowest := 0
	for _, b := range c.VolumeSchedule {
		if lowest == 0 || b.MinSeats < lowest {
			lowest = b.MinSeats
		}
	}
	return lowest
}
