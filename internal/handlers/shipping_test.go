package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/codythatsme/parted-euro-app/internal/auth"
	"github.com/codythatsme/parted-euro-app/internal/shipping"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCarrier is a canned shipping.Client for handler tests.
type stubCarrier struct {
	name    string
	options []shipping.ShippingOption
	err     error
}

func (s *stubCarrier) Name() string { return s.name }

func (s *stubCarrier) Quote(ctx context.Context, req shipping.ShippingRequest) ([]shipping.ShippingOption, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.options, nil
}

func stubShippingService(domestic, international, freight shipping.Client) *shipping.Service {
	return shipping.NewServiceWithClients(shipping.DefaultConfig(), domestic, international, freight)
}

func quoteRequestBody() map[string]any {
	return map[string]any{
		"weight_kg":            5.0,
		"length_cm":            50.0,
		"width_cm":             40.0,
		"height_cm":            30.0,
		"destination_country":  "AU",
		"destination_postcode": "2000",
		"destination_city":     "Sydney",
		"destination_state":    "NSW",
	}
}

func TestGetShippingQuote_ReturnsOptionsAndLogs(t *testing.T) {
	_, queries, cleanup := NewTestDB()
	defer cleanup()

	domestic := &stubCarrier{name: "auspost", options: []shipping.ShippingOption{
		{DisplayName: "AusPost Parcel Post", AmountCents: 1495, Currency: "aud"},
		{DisplayName: "AusPost Express Post", AmountCents: 2250, Currency: "aud"},
	}}
	freight := &stubCarrier{name: "interparcel", options: []shipping.ShippingOption{
		{DisplayName: "TNT Road Express", AmountCents: 3300, Currency: "aud"},
	}}
	handler := NewShippingHandler(queries, stubShippingService(domestic, &stubCarrier{name: "auspost-international"}, freight))

	c, rec := NewTestContext(http.MethodPost, "/api/shipping/quote", quoteRequestBody())

	require.NoError(t, handler.GetShippingQuote(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := AssertJSONResponse(rec)
	require.NoError(t, err)

	options, ok := body["options"].([]any)
	require.True(t, ok)
	require.Len(t, options, 4)
	first := options[0].(map[string]any)
	assert.Equal(t, "Pickup from Warehouse", first["display_name"])
	assert.Empty(t, body["error"])

	logs, err := queries.ListRecentQuoteLogs(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "AU", logs[0].DestinationCountry)
	assert.Equal(t, int64(4), logs[0].OptionCount)
	assert.False(t, logs[0].Error.Valid)
}

func TestGetShippingQuote_AdminSeesAdminOption(t *testing.T) {
	_, queries, cleanup := NewTestDB()
	defer cleanup()

	domestic := &stubCarrier{name: "auspost", options: []shipping.ShippingOption{
		{DisplayName: "AusPost Parcel Post", AmountCents: 1495, Currency: "aud"},
	}}
	handler := NewShippingHandler(queries, stubShippingService(domestic, &stubCarrier{name: "auspost-international"}, &stubCarrier{name: "interparcel"}))

	c, rec := NewTestContext(http.MethodPost, "/api/shipping/quote", quoteRequestBody())
	auth.SetAdmin(c)

	require.NoError(t, handler.GetShippingQuote(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := AssertJSONResponse(rec)
	require.NoError(t, err)

	options := body["options"].([]any)
	first := options[0].(map[string]any)
	assert.Equal(t, "Admin Shipping", first["display_name"])
	assert.Equal(t, float64(1), first["amount_cents"])

	logs, err := queries.ListRecentQuoteLogs(context.Background(), 10)
	require.NoError(t, err)
	require.True(t, logs[0].IsAdmin)
}

func TestGetShippingQuote_InvalidRequest(t *testing.T) {
	_, queries, cleanup := NewTestDB()
	defer cleanup()

	handler := NewShippingHandler(queries, stubShippingService(&stubCarrier{name: "auspost"}, &stubCarrier{name: "auspost-international"}, &stubCarrier{name: "interparcel"}))

	body := quoteRequestBody()
	body["weight_kg"] = 0.0

	c, _ := NewTestContext(http.MethodPost, "/api/shipping/quote", body)

	err := handler.GetShippingQuote(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)

	logs, err := queries.ListRecentQuoteLogs(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, logs, "rejected requests are not audited")
}

func TestGetShippingQuote_NoShippableOptionIsInline(t *testing.T) {
	_, queries, cleanup := NewTestDB()
	defer cleanup()

	// International destination, carrier answers with zero tiers.
	international := &stubCarrier{name: "auspost-international"}
	handler := NewShippingHandler(queries, stubShippingService(&stubCarrier{name: "auspost"}, international, &stubCarrier{name: "interparcel"}))

	body := quoteRequestBody()
	body["destination_country"] = "SG"

	c, rec := NewTestContext(http.MethodPost, "/api/shipping/quote", body)

	require.NoError(t, handler.GetShippingQuote(c))
	require.Equal(t, http.StatusOK, rec.Code)

	resp, err := AssertJSONResponse(rec)
	require.NoError(t, err)
	assert.NotEmpty(t, resp["error"])
	assert.Empty(t, resp["options"])

	logs, err := queries.ListRecentQuoteLogs(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.True(t, logs[0].Error.Valid)
	assert.Equal(t, int64(0), logs[0].OptionCount)
}

func TestGetShippingQuote_RequiredCarrierDownIsBadGateway(t *testing.T) {
	_, queries, cleanup := NewTestDB()
	defer cleanup()

	international := &stubCarrier{name: "auspost-international", err: &shipping.ProviderError{Provider: "auspost-international", Status: 503}}
	handler := NewShippingHandler(queries, stubShippingService(&stubCarrier{name: "auspost"}, international, &stubCarrier{name: "interparcel"}))

	body := quoteRequestBody()
	body["destination_country"] = "US"

	c, _ := NewTestContext(http.MethodPost, "/api/shipping/quote", body)

	err := handler.GetShippingQuote(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadGateway, httpErr.Code)

	logs, err := queries.ListRecentQuoteLogs(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.True(t, logs[0].Error.Valid)
}

func TestSaveAndGetShippingSelection(t *testing.T) {
	_, queries, cleanup := NewTestDB()
	defer cleanup()

	handler := NewShippingHandler(queries, stubShippingService(&stubCarrier{name: "auspost"}, &stubCarrier{name: "auspost-international"}, &stubCarrier{name: "interparcel"}))

	save := map[string]any{
		"display_name": "AusPost Express Post",
		"amount_cents": 2250,
		"currency":     "aud",
		"request":      quoteRequestBody(),
	}

	c, rec := NewTestContext(http.MethodPost, "/api/shipping/selection", save)
	SetTestSession(c, "sess-1")
	require.NoError(t, handler.SaveShippingSelection(c))
	require.Equal(t, http.StatusOK, rec.Code)

	c, rec = NewTestContext(http.MethodGet, "/api/shipping/selection", nil)
	SetTestSession(c, "sess-1")
	require.NoError(t, handler.GetShippingSelection(c))

	body, err := AssertJSONResponse(rec)
	require.NoError(t, err)

	selection, ok := body["selection"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "AusPost Express Post", selection["display_name"])
	assert.Equal(t, float64(2250), selection["amount_cents"])
	assert.Equal(t, true, selection["is_valid"])

	storedReq := selection["request"].(map[string]any)
	assert.Equal(t, "AU", storedReq["destination_country"])
}

func TestSaveShippingSelection_UpdatesExisting(t *testing.T) {
	_, queries, cleanup := NewTestDB()
	defer cleanup()

	handler := NewShippingHandler(queries, stubShippingService(&stubCarrier{name: "auspost"}, &stubCarrier{name: "auspost-international"}, &stubCarrier{name: "interparcel"}))

	first := map[string]any{"display_name": "AusPost Parcel Post", "amount_cents": 1495, "currency": "aud", "request": quoteRequestBody()}
	c, _ := NewTestContext(http.MethodPost, "/api/shipping/selection", first)
	SetTestSession(c, "sess-2")
	require.NoError(t, handler.SaveShippingSelection(c))

	second := map[string]any{"display_name": "TNT Road Express", "amount_cents": 3300, "currency": "aud", "request": quoteRequestBody()}
	c, _ = NewTestContext(http.MethodPost, "/api/shipping/selection", second)
	SetTestSession(c, "sess-2")
	require.NoError(t, handler.SaveShippingSelection(c))

	stored, err := queries.GetShippingSelection(context.Background(), "sess-2")
	require.NoError(t, err)
	assert.Equal(t, "TNT Road Express", stored.DisplayName)
	assert.Equal(t, int64(3300), stored.AmountCents)
	assert.True(t, stored.IsValid)
}

func TestSaveShippingSelection_RequiresSession(t *testing.T) {
	_, queries, cleanup := NewTestDB()
	defer cleanup()

	handler := NewShippingHandler(queries, stubShippingService(&stubCarrier{name: "auspost"}, &stubCarrier{name: "auspost-international"}, &stubCarrier{name: "interparcel"}))

	save := map[string]any{"display_name": "AusPost Parcel Post", "amount_cents": 1495, "currency": "aud"}
	c, _ := NewTestContext(http.MethodPost, "/api/shipping/selection", save)

	err := handler.SaveShippingSelection(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestGetShippingSelection_EmptyWithoutSession(t *testing.T) {
	_, queries, cleanup := NewTestDB()
	defer cleanup()

	handler := NewShippingHandler(queries, stubShippingService(&stubCarrier{name: "auspost"}, &stubCarrier{name: "auspost-international"}, &stubCarrier{name: "interparcel"}))

	c, rec := NewTestContext(http.MethodGet, "/api/shipping/selection", nil)
	require.NoError(t, handler.GetShippingSelection(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := AssertJSONResponse(rec)
	require.NoError(t, err)
	assert.Nil(t, body["selection"])
}

func TestInvalidateShipping(t *testing.T) {
	_, queries, cleanup := NewTestDB()
	defer cleanup()

	handler := NewShippingHandler(queries, stubShippingService(&stubCarrier{name: "auspost"}, &stubCarrier{name: "auspost-international"}, &stubCarrier{name: "interparcel"}))

	save := map[string]any{"display_name": "AusPost Parcel Post", "amount_cents": 1495, "currency": "aud", "request": quoteRequestBody()}
	c, _ := NewTestContext(http.MethodPost, "/api/shipping/selection", save)
	SetTestSession(c, "sess-3")
	require.NoError(t, handler.SaveShippingSelection(c))

	require.NoError(t, handler.InvalidateShipping(c, "sess-3"))

	stored, err := queries.GetShippingSelection(context.Background(), "sess-3")
	require.NoError(t, err)
	assert.False(t, stored.IsValid)
}
