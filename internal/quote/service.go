package quote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/seatwise/quote-api/internal/obs"
	"github.com/seatwise/quote-api/internal/pricing"
)

var (
	// ErrEmptyQuote is returned when an operation requires at least one seat.
	ErrEmptyQuote = errors.New("quote has no seats")
	// ErrDuplicateCourse is returned when a course bucket carries the same id twice.
	ErrDuplicateCourse = errors.New("duplicate course id")
	// ErrRecomputeFailed is returned when the engine fails unexpectedly.
	// The client should keep its previous snapshot and retry.
	ErrRecomputeFailed = errors.New("quote recomputation failed")
	// ErrHandoffFailed is returned when the sales endpoint rejects a handoff.
	ErrHandoffFailed = errors.New("sales handoff failed")
)

// SalesNotifier delivers a quote handoff to the sales team.
type SalesNotifier interface {
	Handoff(ctx context.Context, payload any) error
}

// Service owns quote computation at the HTTP boundary: it sanitises raw
// form input, runs the pricing engine, and dresses the result for display.
// It holds no per-quote state; every call recomputes from scratch.
type Service struct {
	Catalog  pricing.Catalog
	Logger   zerolog.Logger
	Sales    SalesNotifier
	Currency string

	// Now, NewID, and ComputeFn exist so tests can pin timestamps,
	// identifiers, and engine behaviour.
	Now       func() time.Time
	NewID     func() string
	ComputeFn func(pricing.Catalog, pricing.Input) pricing.Calculations
}

// Quote is a computed snapshot dressed for clients: the sanitised input it
// was derived from, the raw calculation figures, and display-formatted
// summary strings.
type Quote struct {
	ID           string               `json:"id"`
	CreatedAt    time.Time            `json:"createdAt"`
	Currency     string               `json:"currency"`
	Input        pricing.Input        `json:"input"`
	Calculations pricing.Calculations `json:"calculations"`
	Display      Display              `json:"display"`
}

// Display carries pre-formatted currency strings so every client renders
// identical figures: whole dollars for round amounts, cents otherwise.
type Display struct {
	Subtotal     string `json:"subtotal"`
	Discount     string `json:"discount"`
	AddOnsTotal  string `json:"addOnsTotal"`
	CoursesTotal string `json:"coursesTotal"`
	FinalTotal   string `json:"finalTotal"`
}

// Handoff records a send-to-sales request.
type Handoff struct {
	Reference string    `json:"reference"`
	QuoteID   string    `json:"quoteId"`
	SentAt    time.Time `json:"sentAt"`
	Delivered bool      `json:"delivered"`
}

// Preview recomputes the full quote snapshot for the given raw input. Out
// of range numerics are clamped, never rejected; the only rejected inputs
// are structural (duplicate course ids within one bucket).
func (s *Service) Preview(_ context.Context, in pricing.Input) (Quote, error) {
	norm := s.normalize(in)
	if err := checkCourseIDs(norm); err != nil {
		count(obs.QuotePreviewTotal, "invalid")
		return Quote{}, err
	}
	start := time.Now()
	calc, err := s.compute(norm)
	if err != nil {
		count(obs.QuotePreviewTotal, "panic")
		return Quote{}, err
	}
	if obs.QuoteComputeDuration != nil {
		obs.QuoteComputeDuration.Observe(obs.DurationMillis(time.Since(start)))
	}
	count(obs.QuotePreviewTotal, "ok")
	return Quote{
		ID:           s.newID(),
		CreatedAt:    s.now().UTC(),
		Currency:     s.currency(),
		Input:        norm,
		Calculations: calc,
		Display:      displayFor(calc),
	}, nil
}

// Export renders the quote as a plain-text document. It refuses quotes
// without any seats; there is nothing meaningful to export.
func (s *Service) Export(ctx context.Context, in pricing.Input) (Quote, []byte, error) {
	q, err := s.Preview(ctx, in)
	if err != nil {
		count(obs.QuoteExportTotal, "error")
		return Quote{}, nil, err
	}
	if q.Calculations.TotalSeats == 0 {
		count(obs.QuoteExportTotal, "empty")
		return Quote{}, nil, ErrEmptyQuote
	}
	count(obs.QuoteExportTotal, "ok")
	return q, RenderDocument(s.Catalog, q), nil
}

// SendToSales records a handoff of the current quote. When a sales
// endpoint is configured the quote is delivered there; otherwise the
// handoff is logged and acknowledged locally.
func (s *Service) SendToSales(ctx context.Context, in pricing.Input) (Handoff, error) {
	q, err := s.Preview(ctx, in)
	if err != nil {
		count(obs.SalesHandoffTotal, "error")
		return Handoff{}, err
	}
	if q.Calculations.TotalSeats == 0 {
		count(obs.SalesHandoffTotal, "empty")
		return Handoff{}, ErrEmptyQuote
	}
	h := Handoff{Reference: s.newID(), QuoteID: q.ID, SentAt: s.now().UTC()}
	if s.Sales != nil {
		payload := struct {
			Handoff Handoff `json:"handoff"`
			Quote   Quote   `json:"quote"`
		}{Handoff: h, Quote: q}
		if err := s.Sales.Handoff(ctx, payload); err != nil {
			s.Logger.Error().Err(err).Str("reference", h.Reference).Msg("sales handoff delivery failed")
			count(obs.SalesHandoffTotal, "failed")
			return Handoff{}, fmt.Errorf("%w: %v", ErrHandoffFailed, err)
		}
		h.Delivered = true
	} else {
		s.Logger.Info().
			Str("reference", h.Reference).
			Int("total_seats", q.Calculations.TotalSeats).
			Int64("final_total", q.Calculations.FinalTotal).
			Msg("sales handoff recorded")
	}
	count(obs.SalesHandoffTotal, "ok")
	return h, nil
}

// compute guards the engine call so an unexpected panic surfaces as a
// retryable error instead of tearing down the request. Clients keep their
// last good snapshot in that case.
func (s *Service) compute(in pricing.Input) (calc pricing.Calculations, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.Logger.Error().Interface("panic", r).Msg("quote recomputation panicked")
			err = ErrRecomputeFailed
		}
	}()
	engine := s.ComputeFn
	if engine == nil {
		engine = pricing.Compute
	}
	return engine(s.Catalog, in), nil
}

// normalize clamps the raw input and assigns ids to course entries that
// arrived without one, so every line in the response is addressable.
func (s *Service) normalize(in pricing.Input) pricing.Input {
	norm := pricing.Sanitize(in)
	for t, bucket := range norm.Courses {
		for i, c := range bucket {
			if c.ID == "" {
				c.ID = s.newID()
				norm.Courses[t][i] = c
			}
		}
	}
	return norm
}

func checkCourseIDs(in pricing.Input) error {
	for _, t := range pricing.CourseTiers() {
		seen := make(map[string]bool, len(in.Courses[t]))
		for _, c := range in.Courses[t] {
			if seen[c.ID] {
				return fmt.Errorf("%w: %q in %s", ErrDuplicateCourse, c.ID, t)
			}
			seen[c.ID] = true
		}
	}
	return nil
}

func displayFor(calc pricing.Calculations) Display {
	return Display{
		Subtotal:     formatAuto(calc.Subtotal),
		Discount:     formatAuto(calc.Discount),
		AddOnsTotal:  formatAuto(calc.AddOnsTotal),
		CoursesTotal: formatAuto(calc.CoursesTotal),
		FinalTotal:   formatAuto(calc.FinalTotal),
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

func (s *Service) currency() string {
	if s.Currency == "" {
		return "USD"
	}
	return s.Currency
}

func count(counter *prometheus.CounterVec, result string) {
	if counter != nil {
		counter.WithLabelValues(result).Inc()
	}
}
