package shipping

import "fmt"

// ProviderError reports a carrier endpoint that returned a non-success
// status or an unparseable payload.
type ProviderError struct {
	Provider string
	Status   int
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: provider returned status %d", e.Provider, e.Status)
	}
	return fmt.Sprintf("%s: provider call failed: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// MissingServiceError reports a carrier response that omitted a service
// tier the aggregator requires to be present.
type MissingServiceError struct {
	Provider    string
	ServiceCode string
}

func (e *MissingServiceError) Error() string {
	return fmt.Sprintf("%s: expected service %q missing from response", e.Provider, e.ServiceCode)
}

// SessionError reports a session bootstrap that finished without a
// usable session cookie.
type SessionError struct {
	Provider string
	Reason   string
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("%s: session bootstrap failed: %s", e.Provider, e.Reason)
}

// CsrfTokenError reports a bootstrap page that contained no
// recognizable anti-forgery token.
type CsrfTokenError struct {
	Provider string
	PageURL  string
}

func (e *CsrfTokenError) Error() string {
	return fmt.Sprintf("%s: no csrf token found on %s", e.Provider, e.PageURL)
}

// NoServicesAvailableError reports a freight quote where the session
// was established but every per-service call failed or came back empty.
type NoServicesAvailableError struct {
	Provider string
}

func (e *NoServicesAvailableError) Error() string {
	return fmt.Sprintf("%s: no services available for this route", e.Provider)
}

// NoShippableOptionError is the policy-level failure: after every
// branch ran, zero options remain.
type NoShippableOptionError struct {
	DestinationCountry string
}

func (e *NoShippableOptionError) Error() string {
	return fmt.Sprintf("no shippable option for destination %q", e.DestinationCountry)
}
