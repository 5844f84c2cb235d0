package model

import "strings"

// ListingFilter selects listings for browsing. An empty or "all" category matches
// every listing; Search matches destination or name case-insensitively.
type ListingFilter struct {
	Category string
	Search   string
}

// Match reports whether l passes the filter.
func (f ListingFilter) Match(l PromotedListing) bool {
	if c := strings.TrimSpace(f.Category); c != "" && c != CategoryAll && l.Category != c {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Search))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(l.Destination), q) ||
		strings.Contains(strings.ToLower(l.Name), q)
}

// FilterListings returns the listings that pass f, preserving order.
func FilterListings(listings []PromotedListing, f ListingFilter) []PromotedListing {
	out := make([]PromotedListing, 0, len(listings))
	for _, l := range listings {
		if f.Match(l) {
			out = append(out, l)
		}
	}
	return out
}

// MatchSponsored returns listings whose destination contains, or is contained in,
// destination (case-insensitive).
func MatchSponsored(destination string, listings []PromotedListing) []PromotedListing {
	dest := strings.ToLower(strings.TrimSpace(destination))
	if dest == "" {
		return nil
	}
	var out []PromotedListing
	for _, l := range listings {
		ld := strings.ToLower(strings.TrimSpace(l.Destination))
		if ld == "" {
			continue
		}
		if strings.Contains(ld, dest) || strings.Contains(dest, ld) {
			out = append(out, l)
		}
	}
	return out
}
