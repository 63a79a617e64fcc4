package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/codythatsme/parted-euro-app/storage/db"
	"github.com/labstack/echo/v4"
	"github.com/stripe/stripe-go/v80"
	checkoutsession "github.com/stripe/stripe-go/v80/checkout/session"
)

type CheckoutHandler struct {
	queries         *db.Queries
	stripeSecretKey string
}

func NewCheckoutHandler(queries *db.Queries, stripeSecretKey string) *CheckoutHandler {
	return &CheckoutHandler{
		queries:         queries,
		stripeSecretKey: stripeSecretKey,
	}
}

type CheckoutLineItem struct {
	Name        string `json:"name"`
	AmountCents int64  `json:"amount_cents"`
	Quantity    int64  `json:"quantity"`
	ImageURL    string `json:"image_url,omitempty"`
	PartID      string `json:"part_id,omitempty"`
}

type CreateCheckoutSessionRequest struct {
	Items []CheckoutLineItem `json:"items"`
}

func (h *CheckoutHandler) CreateCheckoutSession(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreateCheckoutSessionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if len(req.Items) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Cart is empty")
	}

	sessionID, err := h.getSessionID(c)
	if err != nil {
		return err
	}

	selection, err := h.queries.GetShippingSelection(ctx, sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return echo.NewHTTPError(http.StatusBadRequest, "No shipping option selected")
	}
	if err != nil {
		slog.Error("failed to load shipping selection", "error", err, "session_id", sessionID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load shipping selection")
	}
	if !selection.IsValid {
		return echo.NewHTTPError(http.StatusBadRequest, "Shipping selection is stale; please re-quote shipping")
	}

	var lineItems []*stripe.CheckoutSessionLineItemParams

	for _, item := range req.Items {
		if item.Name == "" || item.AmountCents <= 0 || item.Quantity <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "One of your items has an invalid price or quantity")
		}

		metadata := map[string]string{}
		if item.PartID != "" {
			metadata["part_id"] = item.PartID
		}

		lineItem := &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(selection.Currency),
				UnitAmount: stripe.Int64(item.AmountCents),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:     stripe.String(item.Name),
					Metadata: metadata,
				},
			},
			Quantity: stripe.Int64(item.Quantity),
		}

		if item.ImageURL != "" {
			lineItem.PriceData.ProductData.Images = []*string{stripe.String(item.ImageURL)}
		}

		lineItems = append(lineItems, lineItem)
	}

	// Shipping rides along as its own line item so the customer sees
	// exactly the quoted amount, including the zero-cost pickup option.
	shippingLineItem := &stripe.CheckoutSessionLineItemParams{
		PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
			Currency:   stripe.String(selection.Currency),
			UnitAmount: stripe.Int64(selection.AmountCents),
			ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
				Name: stripe.String(fmt.Sprintf("Shipping - %s", selection.DisplayName)),
			},
		},
		Quantity: stripe.Int64(1),
	}
	lineItems = append(lineItems, shippingLineItem)

	stripe.Key = h.stripeSecretKey

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:  lineItems,
		SuccessURL: stripe.String(fmt.Sprintf("%s://%s/checkout/success?session_id={CHECKOUT_SESSION_ID}", c.Scheme(), c.Request().Host)),
		CancelURL:  stripe.String(fmt.Sprintf("%s://%s/cart", c.Scheme(), c.Request().Host)),
	}

	params.Metadata = map[string]string{
		"session_id":       sessionID,
		"shipping_option":  selection.DisplayName,
		"shipping_cents":   fmt.Sprintf("%d", selection.AmountCents),
		"shipping_request": selection.RequestJson,
	}

	params.AddExpand("line_items")

	session, err := checkoutsession.New(params)
	if err != nil {
		slog.Error("failed to create stripe checkout session", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create checkout session")
	}

	return c.JSON(http.StatusOK, map[string]string{"url": session.URL})
}

func (h *CheckoutHandler) getSessionID(c echo.Context) (string, error) {
	cookie, err := c.Cookie("session_id")
	if err != nil || cookie.Value == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "No session found")
	}
	return cookie.Value, nil
}
