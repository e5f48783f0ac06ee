package pricing

import "fmt"

// Clamping bounds for interactive input. Out-of-range values are coerced
// into range rather than rejected so the form stays computable while the
// buyer is still typing.
const (
	MaxSeatsPerTier = 10_000
	MinCourseQty    = 1
	MaxCourseQty    = 10_000
	MaxNameLength   = 100
)

// Seats allocates employee seats across the three tiers.
type Seats struct {
	Tier1 int `json:"tier1"`
	Tier2 int `json:"tier2"`
	Tier3 int `json:"tier3"`
}

// ForTier returns the seat count for the given tier.
func (s Seats) ForTier(t Tier) int {
	switch t {
	case Tier1:
		return s.Tier1
	case Tier2:
		return s.Tier2
	case Tier3:
		return s.Tier3
	}
	return 0
}

// Course is one pay-as-you-go course purchase line. Price keeps the raw
// decimal string as entered; arithmetic uses the parsed value.
type Course struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
	Qty   int    `json:"quantity"`
}

// Input is the full form snapshot handed to Compute. The engine only reads
// it; course entry lifecycle is owned by the caller.
type Input struct {
	Seats   Seats             `json:"seats"`
	AddOns  map[string]bool   `json:"addOns"`
	Courses map[Tier][]Course `json:"courses"`
}

// CourseCost is a single computed course line.
type CourseCost struct {
	Course
	Total      Money `json:"totalCost"`
	Discounted Money `json:"discountedCost"`
}

// TierCourseDetail aggregates course costs for one eligible tier.
type TierCourseDetail struct {
	Courses    []CourseCost `json:"courses"`
	Original   Money        `json:"original"`
	Discounted Money        `json:"discounted"`
	Saved      Money        `json:"saved"`
	RateBps    int          `json:"rateBps"`
}

// Calculations is the fully derived quote snapshot returned by Compute.
// It has no lifecycle of its own; callers replace it wholesale on every
// recomputation.
type Calculations struct {
	Subtotal        Money                     `json:"subtotal"`
	Discount        Money                     `json:"discount"`
	DiscountRateBps int                       `json:"discountRateBps"`
	AddOnsTotal     Money                     `json:"addOnsTotal"`
	CoursesTotal    Money                     `json:"coursesTotal"`
	CourseDetails   map[Tier]TierCourseDetail `json:"courseDetails,omitempty"`
	FinalTotal      Money                     `json:"finalTotal"`
	TotalSeats      int                       `json:"totalSeats"`
	DiscountNote    string                    `json:"discountNote"`
	TierSubtotals   map[Tier]Money            `json:"tierSubtotals"`
}

// Compute recalculates the entire quote from scratch. It is pure and
// deterministic: the input is never mutated and identical inputs always
// yield identical results. All out-of-range values are clamped here even
// when the caller already sanitised them.
func Compute(cat Catalog, in Input) Calculations {
	totalSeats := 0
	var subtotal Money
	tierSubtotals := make(map[Tier]Money, 3)
	for _, t := range Tiers() {
		seats := ClampSeats(in.Seats.ForTier(t))
		totalSeats += seats
		line := Money(seats) * cat.Tiers[t].Price
		tierSubtotals[t] = line
		subtotal += line
	}

	rateBps := cat.DiscountRateBps(totalSeats)
	discount := subtotal * Money(rateBps) / 10000

	var addOnsTotal Money
	for id, enabled := range in.AddOns {
		if !enabled {
			continue
		}
		if info, ok := cat.AddOns[id]; ok {
			addOnsTotal += info.Price
		}
	}

	var coursesTotal Money
	var details map[Tier]TierCourseDetail
	for _, t := range CourseTiers() {
		// Course pricing is gated on owning seats in the tier, not merely
		// on having entries. Entries for a seatless tier stay in the input
		// untouched and contribute nothing.
		bucket := in.Courses[t]
		if ClampSeats(in.Seats.ForTier(t)) == 0 || len(bucket) == 0 {
			continue
		}
		rate := cat.CourseRateBps[t]
		detail := TierCourseDetail{
			Courses: make([]CourseCost, 0, len(bucket)),
			RateBps: rate,
		}
		for _, entry := range bucket {
			c := SanitizeCourse(entry)
			total := ParsePrice(c.Price) * Money(c.Qty)
			discounted := total * Money(10000-rate) / 10000
			detail.Courses = append(detail.Courses, CourseCost{
				Course:     c,
				Total:      total,
				Discounted: discounted,
			})
			detail.Original += total
			detail.Discounted += discounted
		}
		detail.Saved = detail.Original - detail.Discounted
		if details == nil {
			details = make(map[Tier]TierCourseDetail, 2)
		}
		details[t] = detail
		coursesTotal += detail.Discounted
	}

	return Calculations{
		Subtotal:        subtotal,
		Discount:        discount,
		DiscountRateBps: rateBps,
		AddOnsTotal:     addOnsTotal,
		CoursesTotal:    coursesTotal,
		CourseDetails:   details,
		FinalTotal:      subtotal - discount + addOnsTotal + coursesTotal,
		TotalSeats:      totalSeats,
		DiscountNote:    discountNote(cat, rateBps, totalSeats),
		TierSubtotals:   tierSubtotals,
	}
}

// Sanitize returns a copy of the input with every field coerced into range:
// seat counts clamped, quantities clamped, names truncated, and course
// buckets restricted to the eligible tiers. The original input is left
// untouched.
func Sanitize(in Input) Input {
	out := Input{
		Seats: Seats{
			Tier1: ClampSeats(in.Seats.Tier1),
			Tier2: ClampSeats(in.Seats.Tier2),
			Tier3: ClampSeats(in.Seats.Tier3),
		},
	}
	if len(in.AddOns) > 0 {
		out.AddOns = make(map[string]bool, len(in.AddOns))
		for id, enabled := range in.AddOns {
			out.AddOns[id] = enabled
		}
	}
	for _, t := range CourseTiers() {
		bucket, ok := in.Courses[t]
		if !ok {
			continue
		}
		clean := make([]Course, len(bucket))
		for i, c := range bucket {
			clean[i] = SanitizeCourse(c)
		}
		if out.Courses == nil {
			out.Courses = make(map[Tier][]Course, 2)
		}
		out.Courses[t] = clean
	}
	return out
}

// SanitizeCourse clamps a single course entry. Quantities floor at one,
// unlike seat counts which may be zero: a course line always prices at
// least one unit.
func SanitizeCourse(c Course) Course {
	if c.Qty < MinCourseQty {
		c.Qty = MinCourseQty
	}
	if c.Qty > MaxCourseQty {
		c.Qty = MaxCourseQty
	}
	if name := []rune(c.Name); len(name) > MaxNameLength {
		c.Name = string(name[:MaxNameLength])
	}
	return c
}

// ClampSeats coerces a seat count into [0, MaxSeatsPerTier].
func ClampSeats(n int) int {
	if n < 0 {
		return 0
	}
	if n > MaxSeatsPerTier {
		return MaxSeatsPerTier
	}
	return n
}

func discountNote(cat Catalog, rateBps, totalSeats int) string {
	if rateBps > 0 {
		return fmt.Sprintf("%.0f%% Volume Discount Applied", float64(rateBps)/100)
	}
	first := cat.FirstVolumeBreak()
	if first > 0 && totalSeats > 0 && totalSeats < first {
		return fmt.Sprintf("Add %d more seats to qualify for volume discount", first-totalSeats)
	}
	return ""
}
