package classify

import (
	"regexp"
	"strings"
)

// =============================================================================
// PATTERN TABLE
// =============================================================================

// pattern is one entry in the ordered classification table. Exactly one of
// substr or re is set: substr entries match by case-insensitive containment,
// re entries match detail strings with a variable identifier in the middle
// and capture it into the context under captureKey.
type pattern struct {
	substr     string
	re         *regexp.Regexp
	captureKey string
	template   string
}

// match reports whether the detail string is covered by this entry. For
// regex entries the returned map carries the captured identifier.
func (p pattern) match(detail string) (map[string]string, bool) {
	if p.re != nil {
		m := p.re.FindStringSubmatch(detail)
		if m == nil {
			return nil, false
		}
		if p.captureKey != "" && len(m) > 1 {
			return map[string]string{p.captureKey: m[1]}, true
		}
		return nil, true
	}
	return nil, strings.Contains(strings.ToLower(detail), p.substr)
}

// patterns is evaluated top to bottom; the first match wins. The order is
// load-bearing: several backend messages share substrings, so the specific
// form must sit above the generic one ("Not enough available stock to
// reserve" above "Not enough stock", release/fulfil states above the plain
// "Reservation not found"). Keep new entries sorted most-specific first.
var patterns = []pattern{
	{
		substr:   "not enough available stock to reserve",
		template: "Only {available} of the {requested} units you asked for are available to reserve.",
	},
	{
		substr:   "not enough stock",
		template: "There isn't enough stock of this SKU to complete the request.",
	},
	{
		substr:   "reservation has already been released",
		template: "This reservation was already released. Refresh to see the latest numbers.",
	},
	{
		substr:   "reservation has already been fulfilled",
		template: "This reservation has already shipped and can no longer be changed.",
	},
	{
		substr:   "reservation not found",
		template: "That reservation no longer exists. It may have been fulfilled or cancelled.",
	},
	{
		re:         regexp.MustCompile(`(?i)\bSKU\s+['"]?([A-Za-z0-9_-]+)['"]?\s+not found`),
		captureKey: "sku_code",
		template:   "SKU '{sku_code}' doesn't exist in your inventory.",
	},
	{
		re:         regexp.MustCompile(`(?i)\bLocation\s+['"]?([A-Za-z0-9_-]+)['"]?\s+not found`),
		captureKey: "location_code",
		template:   "Location '{location_code}' isn't set up in your workspace.",
	},
	{
		substr:   "sku code already exists",
		template: "A SKU with code '{sku_code}' already exists. Pick a different code.",
	},
	{
		substr:   "would make on-hand negative",
		template: "This change would take on-hand stock below zero. Check the quantity and try again.",
	},
	{
		substr:   "quantity must be positive",
		template: "Quantity must be a positive number.",
	},
	{
		substr:   "concurrent update",
		template: "Someone else updated this item at the same time. Refresh and try again.",
	},
}
