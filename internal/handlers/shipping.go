package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/codythatsme/parted-euro-app/internal/auth"
	"github.com/codythatsme/parted-euro-app/internal/shipping"
	"github.com/codythatsme/parted-euro-app/storage/db"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/oklog/ulid/v2"
)

type ShippingHandler struct {
	queries         *db.Queries
	shippingService *shipping.Service
}

func NewShippingHandler(queries *db.Queries, shippingService *shipping.Service) *ShippingHandler {
	return &ShippingHandler{
		queries:         queries,
		shippingService: shippingService,
	}
}

type GetShippingQuoteResponse struct {
	Options []shipping.ShippingOption `json:"options"`
	Error   string                    `json:"error,omitempty"`
}

func (h *ShippingHandler) GetShippingQuote(c echo.Context) error {
	var req shipping.ShippingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if req.WeightKg <= 0 || req.LengthCm <= 0 || req.WidthCm <= 0 || req.HeightCm <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Package weight and dimensions must be positive")
	}
	if req.DestinationCountry == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Destination country is required")
	}

	caller := shipping.QuoteCaller{IsAdmin: auth.IsAdmin(c)}

	start := time.Now()
	options, err := h.shippingService.GetShippingServices(c.Request().Context(), req, caller)
	h.recordQuote(c, req, caller, len(options), err, time.Since(start))

	if err != nil {
		var noOption *shipping.NoShippableOptionError
		if errors.As(err, &noOption) {
			// Not a carrier outage: every applicable branch ran and
			// nothing survived. The storefront shows this inline.
			return c.JSON(http.StatusOK, GetShippingQuoteResponse{
				Options: []shipping.ShippingOption{},
				Error:   "No shipping option is available for this destination",
			})
		}
		slog.Error("shipping quote failed",
			"error", err,
			"destination", req.DestinationCountry,
			"weight_kg", req.WeightKg)
		return echo.NewHTTPError(http.StatusBadGateway, "Shipping is temporarily unavailable")
	}

	return c.JSON(http.StatusOK, GetShippingQuoteResponse{Options: options})
}

// recordQuote writes one audit row per quote attempt. Failures here are
// logged and never surfaced to the customer.
func (h *ShippingHandler) recordQuote(c echo.Context, req shipping.ShippingRequest, caller shipping.QuoteCaller, optionCount int, quoteErr error, elapsed time.Duration) {
	errText := sql.NullString{}
	if quoteErr != nil {
		errText = sql.NullString{String: quoteErr.Error(), Valid: true}
	}

	// ULIDs keep the audit log sortable by creation time.
	err := h.queries.CreateQuoteLog(c.Request().Context(), db.CreateQuoteLogParams{
		ID:                  ulid.Make().String(),
		DestinationCountry:  req.DestinationCountry,
		DestinationPostcode: sql.NullString{String: req.DestinationPostcode, Valid: req.DestinationPostcode != ""},
		WeightKg:            req.WeightKg,
		IsB2b:               req.IsB2B,
		IsAdmin:             caller.IsAdmin,
		OptionCount:         int64(optionCount),
		Error:               errText,
		DurationMs:          elapsed.Milliseconds(),
	})
	if err != nil {
		slog.Error("failed to write quote log", "error", err, "destination", req.DestinationCountry)
	}
}

type SaveShippingSelectionRequest struct {
	DisplayName string                   `json:"display_name"`
	AmountCents int64                    `json:"amount_cents"`
	Currency    string                   `json:"currency"`
	Request     shipping.ShippingRequest `json:"request"`
}

func (h *ShippingHandler) SaveShippingSelection(c echo.Context) error {
	ctx := c.Request().Context()

	var req SaveShippingSelectionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if req.DisplayName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing required shipping fields")
	}
	if req.AmountCents < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Shipping amount must not be negative")
	}
	if req.Currency == "" {
		req.Currency = h.shippingService.Config().Currency
	}

	sessionID, err := h.getSessionID(c)
	if err != nil {
		return err
	}

	requestJSON, err := json.Marshal(req.Request)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to serialize shipping request")
	}

	_, err = h.queries.GetShippingSelection(ctx, sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		_, err = h.queries.CreateShippingSelection(ctx, db.CreateShippingSelectionParams{
			ID:          uuid.New().String(),
			SessionID:   sessionID,
			DisplayName: req.DisplayName,
			AmountCents: req.AmountCents,
			Currency:    req.Currency,
			RequestJson: string(requestJSON),
		})
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to save shipping selection")
		}
	} else if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to check existing shipping selection")
	} else {
		_, err = h.queries.UpdateShippingSelection(ctx, db.UpdateShippingSelectionParams{
			SessionID:   sessionID,
			DisplayName: req.DisplayName,
			AmountCents: req.AmountCents,
			Currency:    req.Currency,
			RequestJson: string(requestJSON),
		})
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update shipping selection")
		}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"status":       "success",
		"display_name": req.DisplayName,
	})
}

type GetShippingSelectionResponse struct {
	Selection *ShippingSelectionData `json:"selection"`
}

type ShippingSelectionData struct {
	DisplayName string                    `json:"display_name"`
	AmountCents int64                     `json:"amount_cents"`
	Currency    string                    `json:"currency"`
	Request     *shipping.ShippingRequest `json:"request,omitempty"`
	IsValid     bool                      `json:"is_valid"`
}

func (h *ShippingHandler) GetShippingSelection(c echo.Context) error {
	ctx := c.Request().Context()

	sessionID, err := h.getSessionID(c)
	if err != nil {
		return c.JSON(http.StatusOK, GetShippingSelectionResponse{})
	}

	selection, err := h.queries.GetShippingSelection(ctx, sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return c.JSON(http.StatusOK, GetShippingSelectionResponse{})
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to get shipping selection")
	}

	var storedReq *shipping.ShippingRequest
	var parsed shipping.ShippingRequest
	if err := json.Unmarshal([]byte(selection.RequestJson), &parsed); err == nil {
		storedReq = &parsed
	}

	return c.JSON(http.StatusOK, GetShippingSelectionResponse{
		Selection: &ShippingSelectionData{
			DisplayName: selection.DisplayName,
			AmountCents: selection.AmountCents,
			Currency:    selection.Currency,
			Request:     storedReq,
			IsValid:     selection.IsValid,
		},
	})
}

// InvalidateShipping marks the saved selection stale; the checkout flow
// calls this whenever the cart contents change.
func (h *ShippingHandler) InvalidateShipping(c echo.Context, sessionID string) error {
	return h.queries.InvalidateShippingSelection(c.Request().Context(), sessionID)
}

func (h *ShippingHandler) getSessionID(c echo.Context) (string, error) {
	cookie, err := c.Cookie("session_id")
	if err != nil || cookie.Value == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "No session found")
	}
	return cookie.Value, nil
}
