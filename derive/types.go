package derive

import "github.com/shopspring/decimal"

// =============================================================================
// SNAPSHOT - Point-in-time inventory read for one SKU
// =============================================================================

// Snapshot is the inventory-snapshot endpoint's payload for a single SKU.
// The numbers are taken at face value: availability arithmetic is the
// backend's job and is not re-validated here.
type Snapshot struct {
	SKUCode string `json:"sku_code"`
	Name    string `json:"name"`

	Summary Summary `json:"summary"`

	// How many locations hold this SKU in total.
	LocationCount int `json:"location_count"`

	// Location is set when the caller is viewing one location rather than
	// the aggregate. LocationSharePct is the backend-computed share of
	// total on-hand units held there.
	Location         string          `json:"location,omitempty"`
	LocationSharePct decimal.Decimal `json:"location_share_pct"`
}

// Summary carries the three headline quantities for a SKU.
type Summary struct {
	OnHand    OnHand          `json:"on_hand"`
	Available decimal.Decimal `json:"available"`
	Reserved  decimal.Decimal `json:"reserved"`
}

// OnHand is the current total plus its week-over-week movement.
type OnHand struct {
	Value    decimal.Decimal `json:"value"`
	DeltaPct decimal.Decimal `json:"delta_pct"`
}

// =============================================================================
// CARD COPY - Output of the composer
// =============================================================================

// CardText is one dashboard card's descriptive copy.
type CardText struct {
	Description string `json:"description"`
	Subtitle    string `json:"subtitle"`
}

// Cards holds the copy for all four dashboard cards.
type Cards struct {
	OnHand    CardText `json:"on_hand"`
	Available CardText `json:"available"`
	Reserved  CardText `json:"reserved"`
	Location  CardText `json:"location"`
}
