package pricing

import (
	"reflect"
	"testing"
)

func testCatalog() Catalog {
	return Catalog{
		Tiers: map[Tier]TierInfo{
			Tier1: {Price: 75_00, Name: "Tier 1: Awareness"},
			Tier2: {Price: 149_00, Name: "Tier 2: Professional"},
			Tier3: {Price: 249_00, Name: "Tier 3: Total Access"},
		},
		AddOns: map[string]AddOnInfo{
			"teamPortal": {Price: 500_00, Name: "Team Portal"},
		},
		CourseRateBps: map[Tier]int{
			Tier1: 3000,
			Tier2: 5000,
		},
		VolumeSchedule: []VolumeBreak{
			{MinSeats: 50, RateBps: 2500},
			{MinSeats: 100, RateBps: 3500},
			{MinSeats: 250, RateBps: 4500},
			{MinSeats: 500, RateBps: 6000},
			{MinSeats: 1000, RateBps: 7500},
		},
	}
}

func TestDiscountRateThresholds(t *testing.T) {
	cat := testCatalog()
	cases := []struct {
		seats int
		want  int
	}{
		{0, 0},
		{49, 0},
		{50, 2500},
		{99, 2500},
		{100, 3500},
		{249, 3500},
		{250, 4500},
		{499, 4500},
		{500, 6000},
		{999, 6000},
		{1000, 7500},
		{30000, 7500},
	}
	for _, tc := range cases {
		if got := cat.DiscountRateBps(tc.seats); got != tc.want {
			t.Fatalf("seats=%d: expected %d bps, got %d", tc.seats, tc.want, got)
		}
	}
}

func TestComputeVolumeDiscountScenario(t *testing.T) {
	calc := Compute(testCatalog(), Input{Seats: Seats{Tier1: 60}})
	if calc.TotalSeats != 60 {
		t.Fatalf("expected 60 seats, got %d", calc.TotalSeats)
	}
	if calc.Subtotal != 4500_00 {
		t.Fatalf("expected subtotal 450000, got %d", calc.Subtotal)
	}
	if calc.DiscountRateBps != 2500 {
		t.Fatalf("expected 2500 bps, got %d", calc.DiscountRateBps)
	}
	if calc.Discount != 1125_00 {
		t.Fatalf("expected discount 112500, got %d", calc.Discount)
	}
	if calc.FinalTotal != 3375_00 {
		t.Fatalf("expected final total 337500, got %d", calc.FinalTotal)
	}
	if calc.DiscountNote != "25% Volume Discount Applied" {
		t.Fatalf("unexpected discount note: %q", calc.DiscountNote)
	}
}

func TestComputeInvariant(t *testing.T) {
	in := Input{
		Seats:  Seats{Tier1: 12, Tier2: 7, Tier3: 131},
		AddOns: map[string]bool{"teamPortal": true},
		Courses: map[Tier][]Course{
			Tier1: {{ID: "a", Name: "Forklift", Price: "129.99", Qty: 3}},
			Tier2: {{ID: "b", Name: "HAZWOPER", Price: "55", Qty: 2}},
		},
	}
	calc := Compute(testCatalog(), in)
	if got := calc.Subtotal - calc.Discount + calc.AddOnsTotal + calc.CoursesTotal; got != calc.FinalTotal {
		t.Fatalf("invariant broken: expected final %d, got %d", calc.FinalTotal, got)
	}
	var sum Money
	for _, t2 := range Tiers() {
		sum += calc.TierSubtotals[t2]
	}
	if sum != calc.Subtotal {
		t.Fatalf("tier subtotals sum %d does not match subtotal %d", sum, calc.Subtotal)
	}
}

func TestComputeCourseDiscountArithmetic(t *testing.T) {
	in := Input{
		Seats: Seats{Tier1: 1},
		Courses: map[Tier][]Course{
			Tier1: {{ID: "c1", Name: "OSHA 10", Price: "129", Qty: 5}},
		},
	}
	calc := Compute(testCatalog(), in)
	detail, ok := calc.CourseDetails[Tier1]
	if !ok {
		t.Fatalf("expected tier1 course detail")
	}
	if detail.Original != 645_00 {
		t.Fatalf("expected original 64500, got %d", detail.Original)
	}
	if detail.Discounted != 451_50 {
		t.Fatalf("expected discounted 45150, got %d", detail.Discounted)
	}
	if detail.Saved != 193_50 {
		t.Fatalf("expected saved 19350, got %d", detail.Saved)
	}

	in.Seats = Seats{Tier2: 1}
	in.Courses = map[Tier][]Course{
		Tier2: {{ID: "c1", Name: "OSHA 10", Price: "129", Qty: 5}},
	}
	calc = Compute(testCatalog(), in)
	detail, ok = calc.CourseDetails[Tier2]
	if !ok {
		t.Fatalf("expected tier2 course detail")
	}
	if detail.Discounted != 322_50 || detail.Saved != 322_50 {
		t.Fatalf("expected discounted and saved 32250, got %d and %d", detail.Discounted, detail.Saved)
	}
}

func TestComputeCoursesGatedOnSeats(t *testing.T) {
	in := Input{
		Courses: map[Tier][]Course{
			Tier1: {{ID: "c1", Price: "129", Qty: 5}},
			Tier2: {{ID: "c2", Price: "80", Qty: 2}},
		},
	}
	calc := Compute(testCatalog(), in)
	if calc.CoursesTotal != 0 {
		t.Fatalf("expected zero courses total without seats, got %d", calc.CoursesTotal)
	}
	if len(calc.CourseDetails) != 0 {
		t.Fatalf("expected no course details, got %v", calc.CourseDetails)
	}

	// Owning tier2 seats must not unlock tier1 entries.
	in.Seats = Seats{Tier2: 3}
	calc = Compute(testCatalog(), in)
	if _, ok := calc.CourseDetails[Tier1]; ok {
		t.Fatalf("tier1 detail present without tier1 seats")
	}
	if _, ok := calc.CourseDetails[Tier2]; !ok {
		t.Fatalf("expected tier2 detail")
	}
}

func TestComputeClampsBoundaries(t *testing.T) {
	in := Input{
		Seats: Seats{Tier1: 10_001, Tier2: -4},
		Courses: map[Tier][]Course{
			Tier1: {
				{ID: "a", Price: "-5", Qty: 0},
				{ID: "b", Price: "10", Qty: 20_000},
			},
		},
	}
	calc := Compute(testCatalog(), in)
	if calc.TotalSeats != 10_000 {
		t.Fatalf("expected seats clamped to 10000, got %d", calc.TotalSeats)
	}
	detail := calc.CourseDetails[Tier1]
	if detail.Courses[0].Qty != 1 {
		t.Fatalf("expected quantity floor of 1, got %d", detail.Courses[0].Qty)
	}
	if detail.Courses[0].Total != 0 {
		t.Fatalf("expected negative price coerced to 0, got %d", detail.Courses[0].Total)
	}
	if detail.Courses[1].Qty != 10_000 {
		t.Fatalf("expected quantity capped at 10000, got %d", detail.Courses[1].Qty)
	}
}

func TestComputeIdempotent(t *testing.T) {
	in := Input{
		Seats:  Seats{Tier1: 20, Tier2: 35, Tier3: 1},
		AddOns: map[string]bool{"teamPortal": true},
		Courses: map[Tier][]Course{
			Tier1: {{ID: "a", Name: "Confined Space", Price: "42.50", Qty: 4}},
		},
	}
	first := Compute(testCatalog(), in)
	second := Compute(testCatalog(), in)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical results, got %+v vs %+v", first, second)
	}
}

func TestComputeAddOns(t *testing.T) {
	cat := testCatalog()
	calc := Compute(cat, Input{Seats: Seats{Tier3: 2}, AddOns: map[string]bool{"teamPortal": true}})
	if calc.AddOnsTotal != 500_00 {
		t.Fatalf("expected add-on total 50000, got %d", calc.AddOnsTotal)
	}
	calc = Compute(cat, Input{Seats: Seats{Tier3: 2}, AddOns: map[string]bool{"teamPortal": false, "unknown": true}})
	if calc.AddOnsTotal != 0 {
		t.Fatalf("expected add-on total 0, got %d", calc.AddOnsTotal)
	}
}

func TestDiscountNoteBelowFirstBreak(t *testing.T) {
	calc := Compute(testCatalog(), Input{Seats: Seats{Tier1: 30}})
	if calc.DiscountNote != "Add 20 more seats to qualify for volume discount" {
		t.Fatalf("unexpected note: %q", calc.DiscountNote)
	}
	calc = Compute(testCatalog(), Input{})
	if calc.DiscountNote != "" {
		t.Fatalf("expected empty note for zero seats, got %q", calc.DiscountNote)
	}
}

func TestSanitizeDoesNotMutateInput(t *testing.T) {
	in := Input{
		Seats: Seats{Tier1: -3},
		Courses: map[Tier][]Course{
			Tier1: {{ID: "a", Name: "x", Price: "5", Qty: 0}},
			Tier3: {{ID: "z", Price: "9", Qty: 1}},
		},
	}
	out := Sanitize(in)
	if in.Seats.Tier1 != -3 || in.Courses[Tier1][0].Qty != 0 {
		t.Fatalf("input mutated: %+v", in)
	}
	if out.Seats.Tier1 != 0 {
		t.Fatalf("expected clamped seats, got %d", out.Seats.Tier1)
	}
	if out.Courses[Tier1][0].Qty != 1 {
		t.Fatalf("expected clamped quantity, got %d", out.Courses[Tier1][0].Qty)
	}
	if _, ok := out.Courses[Tier3]; ok {
		t.Fatalf("ineligible tier bucket should be dropped")
	}
}
