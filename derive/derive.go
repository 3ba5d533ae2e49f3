/*
Package derive turns raw inventory snapshot numbers into dashboard card copy.

PURPOSE:
  The dashboard shows four cards per SKU (On Hand, Available, Reserved,
  Location), each with a short description and subtitle derived from the
  snapshot. Keeping the wording in one place means every surface renders
  the same copy for the same numbers.

CONTRACT:
  Four independent computations, each a total, deterministic function of
  the snapshot. No I/O, no validation: the backend owns the availability
  arithmetic and its numbers are trusted as-is. Branch order within each
  computation is first-match-wins and deliberate; see the notes on each
  function before reordering anything.

SEE ALSO:
  - api/handlers.go: Attaches the cards to snapshot responses
*/
package derive

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var two = decimal.NewFromInt(2)

// Compose evaluates all four cards for a snapshot.
func Compose(s Snapshot) Cards {
	return Cards{
		OnHand:    OnHandText(s),
		Available: AvailableText(s),
		Reserved:  ReservedText(s),
		Location:  LocationText(s),
	}
}

// OnHandText describes the week-over-week movement of total stock.
// A zero delta on a zero balance reads as empty stock, not as "no
// movement": an empty SKU that stayed empty is a restock problem, not a
// stability signal.
func OnHandText(s Snapshot) CardText {
	oh := s.Summary.OnHand
	switch {
	case !oh.DeltaPct.IsZero() && oh.DeltaPct.IsPositive():
		return CardText{
			Description: "Trending up this week",
			Subtitle:    fmt.Sprintf("Up %s%% from last week", formatPct(oh.DeltaPct)),
		}
	case !oh.DeltaPct.IsZero():
		return CardText{
			Description: "Trending down this week",
			Subtitle:    fmt.Sprintf("Down %s%% from last week", formatPct(oh.DeltaPct.Abs())),
		}
	case oh.Value.IsZero():
		return CardText{
			Description: "No units available",
			Subtitle:    "This SKU has no stock on hand",
		}
	default:
		return CardText{
			Description: "No movement this week",
			Subtitle:    "On-hand total is unchanged from last week",
		}
	}
}

// AvailableText describes how much free-to-promise stock remains. When
// available and reserved are both zero the last branch wins and the card
// reads "Good availability"; that matches the dashboard's long-standing
// behavior, so keep it even though it looks odd for an empty SKU (the On
// Hand card carries the empty-stock signal). The out-of-stock branch only
// fires while reservations exist to disappoint.
func AvailableText(s Snapshot) CardText {
	avail := s.Summary.Available
	reserved := s.Summary.Reserved
	switch {
	case avail.LessThanOrEqual(decimal.Zero) && reserved.IsPositive():
		return CardText{
			Description: "Out of stock",
			Subtitle:    "Restock needed to keep fulfilling orders",
		}
	case reserved.IsPositive() && avail.LessThan(reserved):
		return CardText{
			Description: "Moving steadily",
			Subtitle:    "Reservations are outpacing free stock",
		}
	default:
		return CardText{
			Description: "Good availability",
			Subtitle:    "Plenty of stock free to promise",
		}
	}
}

// ReservedText tiers reservation pressure. Checks run in this order and
// the first hit wins: zero always reads "no active reservations" no
// matter what the other quantities say, and the moderate tier is checked
// before the oversold tier.
func ReservedText(s Snapshot) CardText {
	reserved := s.Summary.Reserved
	avail := s.Summary.Available
	onHand := s.Summary.OnHand.Value
	switch {
	case reserved.IsZero():
		return CardText{
			Description: "No active reservations",
			Subtitle:    "Nothing is committed to open orders",
		}
	case reserved.LessThanOrEqual(avail.Div(two)):
		return CardText{
			Description: "Moderate activity",
			Subtitle:    "Reservations are well covered by available stock",
		}
	case reserved.GreaterThan(onHand):
		return CardText{
			Description: "Orders exceeding supply",
			Subtitle:    "More units are committed than you have on hand",
		}
	default:
		return CardText{
			Description: "Steady demand",
			Subtitle:    "A healthy share of stock is committed to orders",
		}
	}
}

// LocationText describes where the stock lives. With no location selected
// the card summarizes the distribution; with one selected it shows that
// location's share, phrased differently when it is the SKU's only
// location.
func LocationText(s Snapshot) CardText {
	if s.Location == "" {
		if s.LocationCount <= 1 {
			return CardText{
				Description: "Single location",
				Subtitle:    "All inventory is held at one location",
			}
		}
		return CardText{
			Description: "Distributed inventory",
			Subtitle:    fmt.Sprintf("Spread across %d locations", s.LocationCount),
		}
	}
	if s.LocationCount <= 1 {
		return CardText{
			Description: "Only location",
			Subtitle:    fmt.Sprintf("%s holds all on-hand inventory", s.Location),
		}
	}
	return CardText{
		Description: fmt.Sprintf("%s%% of inventory", formatPct(s.LocationSharePct)),
		Subtitle: fmt.Sprintf("%s holds %s%% of units across %d locations",
			s.Location, formatPct(s.LocationSharePct), s.LocationCount),
	}
}

// formatPct renders a percentage without trailing zeros ("12.5", "3").
func formatPct(d decimal.Decimal) string {
	return d.Round(1).String()
}
