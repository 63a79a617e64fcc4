package shipping

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"
)

// maxConcurrentServiceQuotes bounds the per-service fan-out so a route
// with many candidate services does not stampede the broker.
const maxConcurrentServiceQuotes = 8

// InterparcelClient quotes through a freight broker whose API sits
// behind a browser session: an availability call lists candidate
// services, a scraped session supplies cookies and a csrf token, and
// each candidate is then priced with its own quote call.
type InterparcelClient struct {
	cfg    InterparcelConfig
	origin OriginAddress

	currency string
	client   *http.Client

	// pageClient never follows redirects; EstablishSession walks the
	// chain itself to harvest cookies from every hop.
	pageClient *http.Client
}

func NewInterparcelClient(config *Config) *InterparcelClient {
	return &InterparcelClient{
		cfg:      config.Interparcel,
		origin:   config.Origin,
		currency: config.Currency,
		client: &http.Client{
			Timeout: config.RequestTimeout,
		},
		pageClient: &http.Client{
			Timeout: config.RequestTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (c *InterparcelClient) Name() string { return "interparcel" }

type interparcelAvailability struct {
	Error    string               `json:"error,omitempty"`
	Services []interparcelService `json:"services"`
}

type interparcelService struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Carrier string `json:"carrier"`
}

type interparcelQuoteResponse struct {
	Services []interparcelQuote `json:"services"`
}

type interparcelQuote struct {
	Carrier  string      `json:"carrier"`
	Service  string      `json:"service"`
	Price    json.Number `json:"price"`
	Currency string      `json:"currency"`
}

// Quote prices the route in three steps: availability, session
// bootstrap, then one quote call per candidate service. Per-service
// calls fan out concurrently and all settle before filtering; a single
// dead service must not sink the whole freight quote, but the shared
// session is a single point of failure for the batch.
func (c *InterparcelClient) Quote(ctx context.Context, req ShippingRequest) ([]ShippingOption, error) {
	candidates, err := c.availability(ctx, req)
	if err != nil {
		return nil, err
	}

	candidates = c.filterCandidates(candidates, req)
	if len(candidates) == 0 {
		return nil, &NoServicesAvailableError{Provider: c.Name()}
	}

	session, err := c.EstablishSession(ctx, req)
	if err != nil {
		return nil, err
	}

	results := make([][]ShippingOption, len(candidates))
	var g errgroup.Group
	g.SetLimit(maxConcurrentServiceQuotes)
	for i, svc := range candidates {
		g.Go(func() error {
			options, err := c.quoteService(ctx, req, session, svc)
			if err != nil {
				// Unavailable service, not a failed quote.
				slog.Debug("interparcel service excluded",
					"service_id", svc.ID,
					"carrier", svc.Carrier,
					"error", err)
				return nil
			}
			results[i] = options
			return nil
		})
	}
	// Closures never return an error; Wait is a settle-all barrier.
	_ = g.Wait()

	var options []ShippingOption
	for _, r := range results {
		options = append(options, r...)
	}
	if len(options) == 0 {
		return nil, &NoServicesAvailableError{Provider: c.Name()}
	}

	// Provider order is preserved; no price sort at this layer.
	if len(options) > c.cfg.MaxServices {
		options = options[:c.cfg.MaxServices]
	}

	return options, nil
}

func (c *InterparcelClient) availability(ctx context.Context, req ShippingRequest) ([]interparcelService, error) {
	payload := c.routePayload(req)
	resp, err := c.postJSON(ctx, "/api/availability", "", nil, payload)
	if err != nil {
		return nil, err
	}

	var avail interparcelAvailability
	if err := json.Unmarshal(resp, &avail); err != nil {
		return nil, &ProviderError{Provider: c.Name(), Err: fmt.Errorf("failed to decode availability: %w", err)}
	}
	if avail.Error != "" {
		// An explicit error message means the route is not served, not
		// that the broker is down.
		return nil, &ProviderError{Provider: c.Name(), Err: fmt.Errorf("route unavailable: %s", avail.Error)}
	}

	return avail.Services, nil
}

// filterCandidates drops deny-listed carriers and, unless the request
// is itself B2B, any service sold as a B2B tier.
func (c *InterparcelClient) filterCandidates(candidates []interparcelService, req ShippingRequest) []interparcelService {
	var kept []interparcelService
	for _, svc := range candidates {
		if c.isDenied(svc.Carrier) {
			continue
		}
		if !req.IsB2B && strings.Contains(strings.ToUpper(svc.Name), "B2B") {
			continue
		}
		kept = append(kept, svc)
	}
	return kept
}

func (c *InterparcelClient) isDenied(carrier string) bool {
	for _, denied := range c.cfg.CarrierDenyList {
		if strings.EqualFold(carrier, denied) {
			return true
		}
	}
	return false
}

func (c *InterparcelClient) quoteService(ctx context.Context, req ShippingRequest, session *CarrierSession, svc interparcelService) ([]ShippingOption, error) {
	payload := c.routePayload(req)
	payload["service"] = svc.ID

	resp, err := c.postJSON(ctx, "/api/quote", session.CookieHeader(), map[string]string{
		"X-CSRF-TOKEN": session.CSRFToken,
	}, payload)
	if err != nil {
		return nil, err
	}

	var quote interparcelQuoteResponse
	if err := json.Unmarshal(resp, &quote); err != nil {
		return nil, &ProviderError{Provider: c.Name(), Err: fmt.Errorf("failed to decode quote: %w", err)}
	}
	if len(quote.Services) == 0 {
		return nil, &NoServicesAvailableError{Provider: c.Name()}
	}

	var options []ShippingOption
	for _, q := range quote.Services {
		cents, err := CentsRoundUp(q.Price.String())
		if err != nil {
			return nil, &ProviderError{Provider: c.Name(), Err: fmt.Errorf("unparseable price %q for %s: %w", q.Price, svc.ID, err)}
		}
		currency := q.Currency
		if currency == "" {
			currency = c.currency
		}
		options = append(options, ShippingOption{
			DisplayName: strings.TrimSpace(q.Carrier + " " + q.Service),
			AmountCents: cents,
			Currency:    currency,
		})
	}

	return options, nil
}

func (c *InterparcelClient) routePayload(req ShippingRequest) map[string]any {
	return map[string]any{
		"collection": map[string]string{
			"postcode": c.origin.Postcode,
			"city":     c.origin.City,
			"state":    c.origin.State,
			"country":  c.origin.Country,
		},
		"delivery": map[string]string{
			"postcode": req.DestinationPostcode,
			"city":     req.DestinationCity,
			"state":    req.DestinationState,
			"country":  req.DestinationCountry,
		},
		"parcel": map[string]float64{
			"weight": req.WeightKg,
			"length": req.LengthCm,
			"width":  req.WidthCm,
			"height": req.HeightCm,
		},
	}
}

func (c *InterparcelClient) postJSON(ctx context.Context, path, cookie string, headers map[string]string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &ProviderError{Provider: c.Name(), Err: fmt.Errorf("failed to marshal request body: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, &ProviderError{Provider: c.Name(), Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if cookie != "" {
		httpReq.Header.Set("Cookie", cookie)
	}
	for k, v := range headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, &ProviderError{Provider: c.Name(), Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ProviderError{Provider: c.Name(), Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &ProviderError{Provider: c.Name(), Status: resp.StatusCode}
	}

	return respBody, nil
}
