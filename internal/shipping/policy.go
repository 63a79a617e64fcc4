package shipping

// Policy decides which carriers to quote for a request. The decision
// table is ordered; the first matching row wins.
type Policy struct {
	cfg           *Config
	domestic      Client
	international Client
	freight       Client
}

func NewPolicy(cfg *Config, domestic, international, freight Client) *Policy {
	return &Policy{
		cfg:           cfg,
		domestic:      domestic,
		international: international,
		freight:       freight,
	}
}

// Decide maps a request onto planned carrier calls.
//
// Heavy packages (>= FreightWeightKg) go to the freight broker alone;
// for a domestic destination the freight call is optional and pickup is
// always offered, while an international freight failure has no
// fallback and propagates. Light international parcels use the postal
// service when they fit the parcel dimension limit and the broker when
// they do not, required either way. Light domestic packages quote the
// postal service and the broker side by side, both optional, with
// pickup always present.
//
// The domestic/international swallow asymmetry is carried over from the
// storefront's checkout behavior on purpose; do not unify it without
// product sign-off.
func (p *Policy) Decide(req ShippingRequest) SelectionDecision {
	domesticDest := equalCountry(req.DestinationCountry, p.cfg.Origin.Country)
	heavy := req.WeightKg >= p.cfg.Thresholds.FreightWeightKg
	limit := p.cfg.Thresholds.ParcelMaxDimCm
	parcelSized := req.LengthCm < limit && req.WidthCm < limit && req.HeightCm < limit

	switch {
	case heavy:
		if domesticDest {
			return SelectionDecision{
				Calls:         []PlannedCall{{Client: p.freight, Required: false}},
				IncludePickup: true,
			}
		}
		return SelectionDecision{
			Calls: []PlannedCall{{Client: p.freight, Required: true}},
		}

	case !domesticDest:
		client := p.international
		if !parcelSized {
			client = p.freight
		}
		return SelectionDecision{
			Calls: []PlannedCall{{Client: client, Required: true}},
		}

	default:
		calls := []PlannedCall{}
		if parcelSized {
			calls = append(calls, PlannedCall{Client: p.domestic, Required: false})
		}
		calls = append(calls, PlannedCall{Client: p.freight, Required: false})
		return SelectionDecision{
			Calls:         calls,
			IncludePickup: true,
		}
	}
}
