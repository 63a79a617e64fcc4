package shipping

import (
	"context"
	"fmt"
	"net/url"
)

// AusPostInternationalClient quotes international parcels. The rates
// endpoint is keyed by destination country and weight only; AusPost
// does not price international parcels by dimension.
type AusPostInternationalClient struct {
	inner *AusPostClient
}

func NewAusPostInternationalClient(config *Config) *AusPostInternationalClient {
	return &AusPostInternationalClient{inner: NewAusPostClient(config)}
}

func (c *AusPostInternationalClient) Name() string { return "auspost-international" }

// Quote returns the Standard and Express international tiers. The
// allow-list is a product decision: AusPost returns courier and economy
// tiers we do not sell, and those are dropped silently rather than
// treated as bad data.
func (c *AusPostInternationalClient) Quote(ctx context.Context, req ShippingRequest) ([]ShippingOption, error) {
	query := url.Values{}
	query.Set("country_code", req.DestinationCountry)
	query.Set("weight", fmt.Sprintf("%.2f", req.WeightKg))

	list, err := c.inner.fetchServices(ctx, "/postage/parcel/international/service.json", query)
	if err != nil {
		if p, ok := err.(*ProviderError); ok {
			p.Provider = c.Name()
		}
		return nil, err
	}

	allowed := map[string]string{
		c.inner.cfg.IntlStandardCode: "AusPost International Standard",
		c.inner.cfg.IntlExpressCode:  "AusPost International Express",
	}

	var options []ShippingOption
	for _, svc := range list.Services.Service {
		displayName, ok := allowed[svc.Code]
		if !ok {
			continue
		}
		cents, err := CentsRoundUp(svc.Price)
		if err != nil {
			return nil, &ProviderError{Provider: c.Name(), Err: fmt.Errorf("unparseable price %q for %s: %w", svc.Price, svc.Code, err)}
		}
		options = append(options, ShippingOption{
			DisplayName: displayName,
			AmountCents: cents,
			Currency:    c.inner.currency,
		})
	}

	return options, nil
}
