package quote

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/seatwise/quote-api/internal/catalog"
	"github.com/seatwise/quote-api/internal/pricing"
)

func newTestService() *Service {
	n := 0
	return &Service{
		Catalog:  catalog.Default(),
		Logger:   zerolog.Nop(),
		Currency: "USD",
		Now:      func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) },
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
	}
}

func TestPreviewComputesAndDresses(t *testing.T) {
	svc := newTestService()
	q, err := svc.Preview(context.Background(), pricing.Input{
		Seats:  pricing.Seats{Tier1: 60},
		AddOns: map[string]bool{catalog.AddOnTeamPortal: true},
		Courses: map[pricing.Tier][]pricing.Course{
			pricing.Tier1: {{ID: "c1", Name: "OSHA 10", Price: "129.00", Qty: 5}},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "id-1", q.ID)
	require.Equal(t, "USD", q.Currency)
	require.Equal(t, pricing.Money(4500_00), q.Calculations.Subtotal)
	require.Equal(t, pricing.Money(1125_00), q.Calculations.Discount)
	require.Equal(t, pricing.Money(500_00), q.Calculations.AddOnsTotal)
	require.Equal(t, pricing.Money(451_50), q.Calculations.CoursesTotal)
	require.Equal(t, pricing.Money(4326_50), q.Calculations.FinalTotal)

	require.Equal(t, "$4,500", q.Display.Subtotal)
	require.Equal(t, "$1,125", q.Display.Discount)
	require.Equal(t, "$451.50", q.Display.CoursesTotal)
	require.Equal(t, "$4,326.50", q.Display.FinalTotal)
}

func TestPreviewAssignsMissingCourseIDs(t *testing.T) {
	svc := newTestService()
	q, err := svc.Preview(context.Background(), pricing.Input{
		Seats: pricing.Seats{Tier1: 1},
		Courses: map[pricing.Tier][]pricing.Course{
			pricing.Tier1: {{Name: "Forklift", Price: "50", Qty: 1}},
		},
	})
	require.NoError(t, err)
	require.Len(t, q.Input.Courses[pricing.Tier1], 1)
	require.NotEmpty(t, q.Input.Courses[pricing.Tier1][0].ID)
}

func TestPreviewRejectsDuplicateCourseIDs(t *testing.T) {
	svc := newTestService()
	_, err := svc.Preview(context.Background(), pricing.Input{
		Seats: pricing.Seats{Tier1: 1},
		Courses: map[pricing.Tier][]pricing.Course{
			pricing.Tier1: {
				{ID: "dup", Name: "A", Price: "10", Qty: 1},
				{ID: "dup", Name: "B", Price: "20", Qty: 1},
			},
		},
	})
	require.ErrorIs(t, err, ErrDuplicateCourse)
}

func TestExportRequiresSeats(t *testing.T) {
	svc := newTestService()
	_, _, err := svc.Export(context.Background(), pricing.Input{})
	require.ErrorIs(t, err, ErrEmptyQuote)
}

func TestExportDocumentContents(t *testing.T) {
	svc := newTestService()
	_, doc, err := svc.Export(context.Background(), pricing.Input{
		Seats:  pricing.Seats{Tier1: 60},
		AddOns: map[string]bool{catalog.AddOnTeamPortal: true},
		Courses: map[pricing.Tier][]pricing.Course{
			pricing.Tier1: {{ID: "c1", Name: "OSHA 10", Price: "129.00", Qty: 5}},
		},
	})
	require.NoError(t, err)
	text := string(doc)
	require.Contains(t, text, "ANNUAL SUBSCRIPTION QUOTE")
	require.Contains(t, text, "Quote:    id-1")
	require.Contains(t, text, "Date:     2025-06-01")
	require.Contains(t, text, "Volume Discount")
	require.Contains(t, text, "25%")
	require.Contains(t, text, "OSHA 10")
	require.Contains(t, text, "$451.50")
	require.Contains(t, text, "Annual Total: $4,326.50")
	require.Contains(t, text, "estimate and subject to final sales agreement")
}

type stubNotifier struct {
	payload any
	err     error
}

func (s *stubNotifier) Handoff(_ context.Context, payload any) error {
	s.payload = payload
	return s.err
}

func TestSendToSalesWithoutEndpoint(t *testing.T) {
	svc := newTestService()
	h, err := svc.SendToSales(context.Background(), pricing.Input{Seats: pricing.Seats{Tier2: 3}})
	require.NoError(t, err)
	require.NotEmpty(t, h.Reference)
	require.False(t, h.Delivered)
}

func TestSendToSalesDelivers(t *testing.T) {
	svc := newTestService()
	stub := &stubNotifier{}
	svc.Sales = stub
	h, err := svc.SendToSales(context.Background(), pricing.Input{Seats: pricing.Seats{Tier2: 3}})
	require.NoError(t, err)
	require.True(t, h.Delivered)
	require.NotNil(t, stub.payload)
}

func TestSendToSalesDeliveryFailure(t *testing.T) {
	svc := newTestService()
	svc.Sales = &stubNotifier{err: errors.New("endpoint down")}
	_, err := svc.SendToSales(context.Background(), pricing.Input{Seats: pricing.Seats{Tier2: 3}})
	require.ErrorIs(t, err, ErrHandoffFailed)
}

func TestPreviewRecoversFromEnginePanic(t *testing.T) {
	svc := newTestService()
	svc.ComputeFn = func(pricing.Catalog, pricing.Input) pricing.Calculations {
		panic("corrupt schedule")
	}
	_, err := svc.Preview(context.Background(), pricing.Input{Seats: pricing.Seats{Tier1: 60}})
	require.ErrorIs(t, err, ErrRecomputeFailed)
}

func TestSendToSalesRequiresSeats(t *testing.T) {
	svc := newTestService()
	_, err := svc.SendToSales(context.Background(), pricing.Input{})
	require.ErrorIs(t, err, ErrEmptyQuote)
}
