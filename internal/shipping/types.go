package shipping

import (
	"context"
	"strings"
)

// ShippingRequest describes a single package and its destination. It is
// built once per quote request and never mutated.
type ShippingRequest struct {
	WeightKg            float64 `json:"weight_kg"`
	LengthCm            float64 `json:"length_cm"`
	WidthCm             float64 `json:"width_cm"`
	HeightCm            float64 `json:"height_cm"`
	DestinationCountry  string  `json:"destination_country"`
	DestinationPostcode string  `json:"destination_postcode,omitempty"`
	DestinationCity     string  `json:"destination_city,omitempty"`
	DestinationState    string  `json:"destination_state,omitempty"`
	IsB2B               bool    `json:"is_b2b,omitempty"`
}

// ShippingOption is a single priced, customer-facing shipping choice.
// AmountCents is in minor currency units and is always rounded up so a
// quote never undercharges. Two options are considered the same service
// when their DisplayName matches.
type ShippingOption struct {
	DisplayName string `json:"display_name"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
}

// QuoteCaller carries request-scoped facts about who is asking for a
// quote. IsAdmin comes from the admin-key middleware and unlocks the
// synthetic admin option used for manual order entry.
type QuoteCaller struct {
	IsAdmin bool
}

// Client is implemented by each carrier integration. Quote returns
// normalized options only; provider response shapes never leave the
// client that produced them.
type Client interface {
	// Name returns the carrier identifier (e.g. "auspost", "interparcel").
	Name() string

	// Quote returns priced shipping options for the request.
	Quote(ctx context.Context, req ShippingRequest) ([]ShippingOption, error)
}

// PlannedCall is one carrier invocation chosen by the policy engine.
// Failures of optional calls are logged and swallowed; a required
// failure aborts the whole quote.
type PlannedCall struct {
	Client   Client
	Required bool
}

// SelectionDecision is the policy engine's output: which carriers to
// query, in order, and whether the branch adds the synthetic pickup
// option.
type SelectionDecision struct {
	Calls         []PlannedCall
	IncludePickup bool
}

// equalCountry compares ISO country codes case-insensitively.
func equalCountry(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
