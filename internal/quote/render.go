package quote

import (
	"fmt"
	"sort"
	"strings"

	"github.com/seatwise/quote-api/internal/pricing"
)

// FormatUSD renders a cent amount as a dollar string with thousands
// separators. With showCents false the amount is rounded to the nearest
// whole dollar, matching how summary figures appear on printed quotes.
func FormatUSD(m pricing.Money, showCents bool) string {
	neg := m < 0
	if neg {
		m = -m
	}
	dollars := m / 100
	cents := m % 100
	var s string
	if showCents {
		s = fmt.Sprintf("$%s.%02d", groupThousands(dollars), cents)
	} else {
		if cents >= 50 {
			dollars++
		}
		s = "$" + groupThousands(dollars)
	}
	if neg {
		return "-" + s
	}
	return s
}

// formatAuto shows cents only when the amount has a fractional dollar
// component, so round figures read as "$4,500" and course arithmetic as
// "$451.50".
func formatAuto(m pricing.Money) string {
	return FormatUSD(m, m%100 != 0)
}

func groupThousands(n int64) string {
	digits := fmt.Sprintf("%d", n)
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// RenderDocument lays the quote out as a plain-text document suitable for
// download or email. Summary figures use whole dollars, course lines keep
// cents.
func RenderDocument(cat pricing.Catalog, q Quote) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "ANNUAL SUBSCRIPTION QUOTE\n")
	fmt.Fprintf(&b, "Quote:    %s\n", q.ID)
	fmt.Fprintf(&b, "Date:     %s\n", q.CreatedAt.Format("2006-01-02"))
	fmt.Fprintf(&b, "Currency: %s\n\n", q.Currency)

	b.WriteString("Seats\n")
	for _, t := range pricing.Tiers() {
		n := q.Input.Seats.ForTier(t)
		if n == 0 {
			continue
		}
		info := cat.Tiers[t]
		fmt.Fprintf(&b, "  %-28s %5d x %s = %s\n",
			info.Name, n, formatAuto(info.Price), formatAuto(info.Price*pricing.Money(n)))
	}
	fmt.Fprintf(&b, "  %-28s %s\n", "Subtotal", formatAuto(q.Calculations.Subtotal))

	if q.Calculations.Discount > 0 {
		fmt.Fprintf(&b, "  %-28s -%s (%s)\n", "Volume Discount",
			formatAuto(q.Calculations.Discount), ratePercent(q.Calculations.DiscountRateBps))
	}

	if q.Calculations.AddOnsTotal > 0 {
		b.WriteString("\nAdd-Ons\n")
		ids := make([]string, 0, len(q.Input.AddOns))
		for id, on := range q.Input.AddOns {
			if on {
				ids = append(ids, id)
			}
		}
		sort.Strings(ids)
		for _, id := range ids {
			info, ok := cat.AddOns[id]
			if !ok {
				continue
			}
			fmt.Fprintf(&b, "  %-28s %s\n", info.Name, formatAuto(info.Price))
		}
	}

	if q.Calculations.CoursesTotal > 0 {
		b.WriteString("\nPay-As-You-Go Courses\n")
		for _, t := range pricing.CourseTiers() {
			detail, ok := q.Calculations.CourseDetails[t]
			if !ok || len(detail.Courses) == 0 {
				continue
			}
			fmt.Fprintf(&b, "  %s (%s off)\n", cat.Tiers[t].Name, ratePercent(detail.RateBps))
			for _, c := range detail.Courses {
				name := c.Name
				if name == "" {
					name = "Course"
				}
				fmt.Fprintf(&b, "    %-26s %3d x %s = %s",
					name, c.Qty, FormatUSD(pricing.ParsePrice(c.Price), true), FormatUSD(c.Total, true))
				if c.Discounted != c.Total {
					fmt.Fprintf(&b, " -> %s (save %s)",
						FormatUSD(c.Discounted, true), FormatUSD(c.Total-c.Discounted, true))
				}
				b.WriteByte('\n')
			}
		}
		fmt.Fprintf(&b, "  %-28s %s\n", "Courses Total", formatAuto(q.Calculations.CoursesTotal))
	}

	fmt.Fprintf(&b, "\nAnnual Total: %s\n", formatAuto(q.Calculations.FinalTotal))
	if q.Calculations.DiscountNote != "" {
		fmt.Fprintf(&b, "%s\n", q.Calculations.DiscountNote)
	}
	b.WriteString("\nThis is an estimate and subject to final sales agreement.\n")
	return []byte(b.String())
}

func ratePercent(bps int) string {
	return fmt.Sprintf("%.0f%%", float64(bps)/100)
}
