package derive_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/warp/inventory-console/derive"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func snapshot(onHand, deltaPct, available, reserved string) derive.Snapshot {
	return derive.Snapshot{
		SKUCode: "ABC123",
		Name:    "Steel Bracket",
		Summary: derive.Summary{
			OnHand:    derive.OnHand{Value: dec(onHand), DeltaPct: dec(deltaPct)},
			Available: dec(available),
			Reserved:  dec(reserved),
		},
		LocationCount: 1,
	}
}

// =============================================================================
// ON HAND
// =============================================================================

func TestOnHandText(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		deltaPct string
		want     derive.CardText
	}{
		{
			name: "positive delta describes upward movement",
			value: "120", deltaPct: "12.5",
			want: derive.CardText{Description: "Trending up this week", Subtitle: "Up 12.5% from last week"},
		},
		{
			name: "negative delta describes downward movement with magnitude",
			value: "120", deltaPct: "-4",
			want: derive.CardText{Description: "Trending down this week", Subtitle: "Down 4% from last week"},
		},
		{
			name: "zero delta on zero stock reads as empty, not as no movement",
			value: "0", deltaPct: "0",
			want: derive.CardText{Description: "No units available", Subtitle: "This SKU has no stock on hand"},
		},
		{
			name: "zero delta on nonzero stock reads as no movement",
			value: "50", deltaPct: "0",
			want: derive.CardText{Description: "No movement this week", Subtitle: "On-hand total is unchanged from last week"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := snapshot(tt.value, tt.deltaPct, "0", "0")
			assert.Equal(t, tt.want, derive.OnHandText(s))
		})
	}
}

// =============================================================================
// AVAILABLE
// =============================================================================

func TestAvailableText(t *testing.T) {
	tests := []struct {
		name      string
		available string
		reserved  string
		wantDesc  string
	}{
		{name: "zero available is out of stock", available: "0", reserved: "5", wantDesc: "Out of stock"},
		{name: "negative available is out of stock", available: "-2", reserved: "5", wantDesc: "Out of stock"},
		{name: "reservations outpacing free stock", available: "3", reserved: "10", wantDesc: "Moving steadily"},
		{name: "plenty free", available: "40", reserved: "10", wantDesc: "Good availability"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := snapshot("50", "0", tt.available, tt.reserved)
			assert.Equal(t, tt.wantDesc, derive.AvailableText(s).Description)
		})
	}
}

func TestAvailableText_BothZero_KeepsGoodAvailabilityBranch(t *testing.T) {
	// Long-standing dashboard behavior: a fully empty SKU still reads
	// "Good availability" on this card. The empty-stock signal lives on
	// the On Hand card instead. Preserved deliberately.
	s := snapshot("0", "0", "0", "0")
	got := derive.AvailableText(s)
	assert.Equal(t, "Good availability", got.Description)
}

// =============================================================================
// RESERVED
// =============================================================================

func TestReservedText(t *testing.T) {
	tests := []struct {
		name     string
		onHand   string
		available string
		reserved string
		wantDesc string
	}{
		{name: "zero reserved", onHand: "50", available: "50", reserved: "0", wantDesc: "No active reservations"},
		{name: "well covered by available", onHand: "50", available: "40", reserved: "10", wantDesc: "Moderate activity"},
		{name: "oversold", onHand: "10", available: "0", reserved: "25", wantDesc: "Orders exceeding supply"},
		{name: "steady demand", onHand: "50", available: "20", reserved: "15", wantDesc: "Steady demand"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := snapshot(tt.onHand, "0", tt.available, tt.reserved)
			assert.Equal(t, tt.wantDesc, derive.ReservedText(s).Description)
		})
	}
}

func TestReservedText_ZeroWinsRegardlessOfOtherQuantities(t *testing.T) {
	// First-match-wins: reserved == 0 short-circuits before any threshold
	// involving available or on-hand is considered.
	s := snapshot("-5", "0", "-10", "0")
	assert.Equal(t, "No active reservations", derive.ReservedText(s).Description)
}

func TestReservedText_ModerateTierCheckedBeforeOversold(t *testing.T) {
	// reserved <= available/2 and reserved > on_hand can both hold when
	// on-hand lags; the moderate tier must win because it is checked first.
	s := snapshot("3", "0", "100", "5")
	assert.Equal(t, "Moderate activity", derive.ReservedText(s).Description)
}

// =============================================================================
// LOCATION
// =============================================================================

func TestLocationText(t *testing.T) {
	tests := []struct {
		name          string
		location      string
		locationCount int
		sharePct      string
		want          derive.CardText
	}{
		{
			name: "aggregate view, single location",
			locationCount: 1,
			sharePct:      "100",
			want:          derive.CardText{Description: "Single location", Subtitle: "All inventory is held at one location"},
		},
		{
			name: "aggregate view, several locations",
			locationCount: 4,
			sharePct:      "0",
			want:          derive.CardText{Description: "Distributed inventory", Subtitle: "Spread across 4 locations"},
		},
		{
			name: "selected location is the only one",
			location:      "WH-EAST",
			locationCount: 1,
			sharePct:      "100",
			want:          derive.CardText{Description: "Only location", Subtitle: "WH-EAST holds all on-hand inventory"},
		},
		{
			name: "selected location among several",
			location:      "WH-EAST",
			locationCount: 3,
			sharePct:      "42.5",
			want: derive.CardText{
				Description: "42.5% of inventory",
				Subtitle:    "WH-EAST holds 42.5% of units across 3 locations",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := snapshot("50", "0", "40", "10")
			s.Location = tt.location
			s.LocationCount = tt.locationCount
			s.LocationSharePct = dec(tt.sharePct)
			assert.Equal(t, tt.want, derive.LocationText(s))
		})
	}
}

// =============================================================================
// COMPOSE
// =============================================================================

func TestCompose_FillsAllFourCards(t *testing.T) {
	s := snapshot("120", "12.5", "90", "30")
	cards := derive.Compose(s)

	assert.Equal(t, derive.OnHandText(s), cards.OnHand)
	assert.Equal(t, derive.AvailableText(s), cards.Available)
	assert.Equal(t, derive.ReservedText(s), cards.Reserved)
	assert.Equal(t, derive.LocationText(s), cards.Location)
}
