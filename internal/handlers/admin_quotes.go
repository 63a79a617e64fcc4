package handlers

import (
	"net/http"
	"strconv"

	"github.com/codythatsme/parted-euro-app/storage/db"
	"github.com/labstack/echo/v4"
)

type AdminHandler struct {
	queries *db.Queries
}

func NewAdminHandler(queries *db.Queries) *AdminHandler {
	return &AdminHandler{queries: queries}
}

type QuoteLogEntry struct {
	ID                  string  `json:"id"`
	DestinationCountry  string  `json:"destination_country"`
	DestinationPostcode string  `json:"destination_postcode,omitempty"`
	WeightKg            float64 `json:"weight_kg"`
	IsB2B               bool    `json:"is_b2b"`
	IsAdmin             bool    `json:"is_admin"`
	OptionCount         int64   `json:"option_count"`
	Error               string  `json:"error,omitempty"`
	DurationMs          int64   `json:"duration_ms"`
	CreatedAt           string  `json:"created_at"`
}

// ListQuoteLogs returns the most recent quote attempts, newest first.
func (h *AdminHandler) ListQuoteLogs(c echo.Context) error {
	limit := int64(50)
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 || parsed > 500 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be between 1 and 500")
		}
		limit = parsed
	}

	logs, err := h.queries.ListRecentQuoteLogs(c.Request().Context(), limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list quote logs")
	}

	entries := make([]QuoteLogEntry, 0, len(logs))
	for _, l := range logs {
		entry := QuoteLogEntry{
			ID:                 l.ID,
			DestinationCountry: l.DestinationCountry,
			WeightKg:           l.WeightKg,
			IsB2B:              l.IsB2b,
			IsAdmin:            l.IsAdmin,
			OptionCount:        l.OptionCount,
			DurationMs:         l.DurationMs,
			CreatedAt:          l.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		}
		if l.DestinationPostcode.Valid {
			entry.DestinationPostcode = l.DestinationPostcode.String
		}
		if l.Error.Valid {
			entry.Error = l.Error.String
		}
		entries = append(entries, entry)
	}

	return c.JSON(http.StatusOK, map[string]any{"quotes": entries})
}
