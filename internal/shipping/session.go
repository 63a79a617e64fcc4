package shipping

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// CarrierSession holds the credentials harvested from the freight
// broker's human-facing quote page: the session cookies accumulated
// while following its redirect chain, and the anti-forgery token
// embedded in the final page. Sessions are created per quote request
// and discarded after use; nothing here is ever cached or shared, so a
// stale session can never poison a later request.
type CarrierSession struct {
	Cookies   map[string]string
	CSRFToken string
}

// CookieHeader renders the jar as a Cookie request header value.
func (s *CarrierSession) CookieHeader() string {
	pairs := make([]string, 0, len(s.Cookies))
	for name, value := range s.Cookies {
		pairs = append(pairs, name+"="+value)
	}
	return strings.Join(pairs, "; ")
}

// EstablishSession fetches the broker's quote page and follows its
// redirects by hand, up to the configured hop budget, collecting
// Set-Cookie values across hops. The broker's session flow is a legacy
// browser surface, not an API: redirects are part of its login dance,
// so the budget is a protocol bound rather than transient-fault
// handling.
func (c *InterparcelClient) EstablishSession(ctx context.Context, req ShippingRequest) (*CarrierSession, error) {
	session := &CarrierSession{Cookies: make(map[string]string)}

	pageURL := c.quotePageURL(req)
	var finalBody []byte
	redirected := true

	for hop := 0; hop < c.cfg.MaxRedirectHops && redirected; hop++ {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return nil, &ProviderError{Provider: c.Name(), Err: err}
		}
		if cookie := session.CookieHeader(); cookie != "" {
			httpReq.Header.Set("Cookie", cookie)
		}

		resp, err := c.pageClient.Do(httpReq)
		if err != nil {
			return nil, &ProviderError{Provider: c.Name(), Err: err}
		}

		for _, ck := range resp.Cookies() {
			session.Cookies[ck.Name] = ck.Value
		}

		if resp.StatusCode >= 300 && resp.StatusCode < 400 {
			location := resp.Header.Get("Location")
			resp.Body.Close()
			if location == "" {
				return nil, &SessionError{Provider: c.Name(), Reason: fmt.Sprintf("redirect without location (status %d)", resp.StatusCode)}
			}
			next, err := resolveLocation(pageURL, location)
			if err != nil {
				return nil, &SessionError{Provider: c.Name(), Reason: "unparseable redirect location"}
			}
			pageURL = next
			continue
		}

		redirected = false
		finalBody, err = io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, &ProviderError{Provider: c.Name(), Err: err}
		}
		if resp.StatusCode != http.StatusOK {
			return nil, &ProviderError{Provider: c.Name(), Status: resp.StatusCode}
		}
	}

	if redirected {
		return nil, &SessionError{Provider: c.Name(), Reason: fmt.Sprintf("still redirecting after %d hops", c.cfg.MaxRedirectHops)}
	}

	if _, ok := session.Cookies[c.cfg.SessionCookie]; !ok {
		return nil, &SessionError{Provider: c.Name(), Reason: fmt.Sprintf("no %q cookie after redirects", c.cfg.SessionCookie)}
	}

	token := extractCSRFToken(finalBody)
	if token == "" {
		return nil, &CsrfTokenError{Provider: c.Name(), PageURL: pageURL}
	}
	session.CSRFToken = token

	return session, nil
}

func (c *InterparcelClient) quotePageURL(req ShippingRequest) string {
	query := url.Values{}
	query.Set("source", "au")
	query.Set("coll_postcode", c.origin.Postcode)
	query.Set("coll_city", c.origin.City)
	query.Set("coll_state", c.origin.State)
	query.Set("coll_country", c.origin.Country)
	query.Set("del_postcode", req.DestinationPostcode)
	query.Set("del_city", req.DestinationCity)
	query.Set("del_state", req.DestinationState)
	query.Set("del_country", req.DestinationCountry)
	query.Set("weight", fmt.Sprintf("%.2f", req.WeightKg))
	query.Set("length", fmt.Sprintf("%.0f", req.LengthCm))
	query.Set("width", fmt.Sprintf("%.0f", req.WidthCm))
	query.Set("height", fmt.Sprintf("%.0f", req.HeightCm))
	return c.cfg.BaseURL + c.cfg.QuotePagePath + "?" + query.Encode()
}

func resolveLocation(current, location string) (string, error) {
	base, err := url.Parse(current)
	if err != nil {
		return "", err
	}
	next, err := base.Parse(location)
	if err != nil {
		return "", err
	}
	return next.String(), nil
}

// extractCSRFToken scans the page for <meta name="csrf-token"
// content="..."> using a tokenizer rather than a full DOM walk.
func extractCSRFToken(page []byte) string {
	tokenizer := html.NewTokenizer(strings.NewReader(string(page)))
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken, html.SelfClosingTagToken:
			token := tokenizer.Token()
			if token.Data != "meta" {
				continue
			}
			var name, content string
			for _, attr := range token.Attr {
				switch attr.Key {
				case "name":
					name = attr.Val
				case "content":
					content = attr.Val
				}
			}
			if name == "csrf-token" && content != "" {
				return content
			}
		}
	}
}
