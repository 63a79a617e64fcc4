package shipping

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Service is the shipping quote aggregator: it asks the policy engine
// which carriers apply, runs their quote calls, and assembles a
// bounded, normalized option list. All state is request-scoped; the
// service itself only holds configuration and clients.
type Service struct {
	cfg    *Config
	policy *Policy
}

func NewService(cfg *Config) *Service {
	domestic := NewAusPostClient(cfg)
	international := NewAusPostInternationalClient(cfg)
	freight := NewInterparcelClient(cfg)
	return NewServiceWithClients(cfg, domestic, international, freight)
}

// NewServiceWithClients wires explicit carrier clients; tests use this
// to substitute fakes.
func NewServiceWithClients(cfg *Config, domestic, international, freight Client) *Service {
	return &Service{
		cfg:    cfg,
		policy: NewPolicy(cfg, domestic, international, freight),
	}
}

func (s *Service) Config() *Config { return s.cfg }

// GetShippingServices returns the ranked, size-bounded option list for
// one package. Optional carrier failures are logged and swallowed at
// the point of call; a required failure propagates unmodified so the
// checkout can surface "shipping unavailable".
func (s *Service) GetShippingServices(ctx context.Context, req ShippingRequest, caller QuoteCaller) ([]ShippingOption, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	decision := s.policy.Decide(req)

	slog.Debug("shipping quote planned",
		"destination", req.DestinationCountry,
		"weight_kg", req.WeightKg,
		"carriers", len(decision.Calls),
		"pickup", decision.IncludePickup,
		"admin", caller.IsAdmin)

	// Planned calls run side by side; each slot settles independently
	// so optional-failure semantics stay per-call.
	results := make([][]ShippingOption, len(decision.Calls))
	callErrs := make([]error, len(decision.Calls))
	var g errgroup.Group
	for i, call := range decision.Calls {
		g.Go(func() error {
			results[i], callErrs[i] = call.Client.Quote(ctx, req)
			return nil
		})
	}
	_ = g.Wait()

	for i, call := range decision.Calls {
		if callErrs[i] == nil {
			continue
		}
		if call.Required {
			return nil, callErrs[i]
		}
		slog.Warn("optional carrier quote failed",
			"carrier", call.Client.Name(),
			"destination", req.DestinationCountry,
			"error", callErrs[i])
		results[i] = nil
	}

	options := Assemble(s.cfg, decision, caller, results)
	if len(options) == 0 {
		return nil, &NoShippableOptionError{DestinationCountry: req.DestinationCountry}
	}

	return options, nil
}

func validateRequest(req ShippingRequest) error {
	if req.WeightKg <= 0 {
		return fmt.Errorf("weight must be positive")
	}
	if req.LengthCm <= 0 || req.WidthCm <= 0 || req.HeightCm <= 0 {
		return fmt.Errorf("dimensions must be positive")
	}
	if req.DestinationCountry == "" {
		return fmt.Errorf("destination country is required")
	}
	return nil
}
