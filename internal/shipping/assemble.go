package shipping

// Assemble builds the final option list in provenance order: the admin
// override first when the caller is staff, then pickup when the policy
// branch offers it, then carrier options in the order their clients
// returned them. Duplicate display names keep the first occurrence and
// the list is cut at MaxOptions. No price sort happens here; ordering
// is structural.
func Assemble(cfg *Config, decision SelectionDecision, caller QuoteCaller, carrierOptions [][]ShippingOption) []ShippingOption {
	var options []ShippingOption

	if caller.IsAdmin {
		options = append(options, ShippingOption{
			DisplayName: cfg.AdminOption.DisplayName,
			AmountCents: cfg.AdminOption.AmountCents,
			Currency:    cfg.Currency,
		})
	}

	if decision.IncludePickup {
		options = append(options, ShippingOption{
			DisplayName: cfg.Pickup.DisplayName,
			AmountCents: cfg.Pickup.AmountCents,
			Currency:    cfg.Currency,
		})
	}

	for _, set := range carrierOptions {
		options = append(options, set...)
	}

	options = dedupeByDisplayName(options)

	if len(options) > cfg.Thresholds.MaxOptions {
		options = options[:cfg.Thresholds.MaxOptions]
	}

	return options
}

func dedupeByDisplayName(options []ShippingOption) []ShippingOption {
	seen := make(map[string]bool, len(options))
	kept := options[:0]
	for _, opt := range options {
		if seen[opt.DisplayName] {
			continue
		}
		seen[opt.DisplayName] = true
		kept = append(kept, opt)
	}
	return kept
}
