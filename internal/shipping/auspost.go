package shipping

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
)

// AusPostClient quotes domestic parcels against the AusPost postage
// calculator. Authentication is a static API key header.
type AusPostClient struct {
	cfg      AusPostConfig
	currency string
	apiKey   string
	client   *http.Client
}

func NewAusPostClient(config *Config) *AusPostClient {
	return &AusPostClient{
		cfg:      config.AusPost,
		currency: config.Currency,
		apiKey:   os.Getenv("AUSPOST_API_KEY"),
		client: &http.Client{
			Timeout: config.RequestTimeout,
		},
	}
}

func (c *AusPostClient) Name() string { return "auspost" }

// auspostServiceList is the wire shape of the AusPost service endpoints.
type auspostServiceList struct {
	Services struct {
		Service []auspostService `json:"service"`
	} `json:"services"`
	Error *auspostError `json:"error,omitempty"`
}

type auspostService struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Price string `json:"price"`
}

type auspostError struct {
	Code    string `json:"code"`
	Message string `json:"errorMessage"`
}

// Quote returns exactly the regular and express domestic tiers. Both
// must be present: downstream checkout assumes two tiers for any
// domestic parcel, so a missing tier is a hard failure rather than a
// partial result.
func (c *AusPostClient) Quote(ctx context.Context, req ShippingRequest) ([]ShippingOption, error) {
	query := url.Values{}
	query.Set("from_postcode", c.cfg.FromPostcode)
	query.Set("to_postcode", req.DestinationPostcode)
	query.Set("length", fmt.Sprintf("%.0f", req.LengthCm))
	query.Set("width", fmt.Sprintf("%.0f", req.WidthCm))
	query.Set("height", fmt.Sprintf("%.0f", req.HeightCm))
	query.Set("weight", fmt.Sprintf("%.2f", req.WeightKg))

	list, err := c.fetchServices(ctx, "/postage/parcel/domestic/service.json", query)
	if err != nil {
		return nil, err
	}

	byCode := make(map[string]auspostService, len(list.Services.Service))
	for _, svc := range list.Services.Service {
		byCode[svc.Code] = svc
	}

	var options []ShippingOption
	for _, code := range []string{c.cfg.DomesticRegularCode, c.cfg.DomesticExpressCode} {
		svc, ok := byCode[code]
		if !ok {
			return nil, &MissingServiceError{Provider: c.Name(), ServiceCode: code}
		}
		option, err := c.toOption(svc)
		if err != nil {
			return nil, err
		}
		options = append(options, option)
	}

	return options, nil
}

func (c *AusPostClient) fetchServices(ctx context.Context, path string, query url.Values) (*auspostServiceList, error) {
	endpoint := c.cfg.BaseURL + path + "?" + query.Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &ProviderError{Provider: c.Name(), Err: err}
	}
	httpReq.Header.Set("AUTH-KEY", c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, &ProviderError{Provider: c.Name(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ProviderError{Provider: c.Name(), Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &ProviderError{Provider: c.Name(), Status: resp.StatusCode}
	}

	var list auspostServiceList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, &ProviderError{Provider: c.Name(), Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	if list.Error != nil {
		return nil, &ProviderError{Provider: c.Name(), Err: fmt.Errorf("provider error: %s", list.Error.Message)}
	}

	return &list, nil
}

func (c *AusPostClient) toOption(svc auspostService) (ShippingOption, error) {
	cents, err := CentsRoundUp(svc.Price)
	if err != nil {
		return ShippingOption{}, &ProviderError{Provider: c.Name(), Err: fmt.Errorf("unparseable price %q for %s: %w", svc.Price, svc.Code, err)}
	}
	return ShippingOption{
		DisplayName: "AusPost " + svc.Name,
		AmountCents: cents,
		Currency:    c.currency,
	}, nil
}
