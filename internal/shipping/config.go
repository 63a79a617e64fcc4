package shipping

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Thresholds are the carrier service boundaries the policy engine
// branches on. They mirror real parcel-vs-freight tiers and are
// configuration, not constants in code.
type Thresholds struct {
	// FreightWeightKg is the weight at and above which only the freight
	// broker is quoted.
	FreightWeightKg float64 `json:"freight_weight_kg"`
	// ParcelMaxDimCm is the per-dimension limit for postal parcels.
	ParcelMaxDimCm float64 `json:"parcel_max_dim_cm"`
	// MaxOptions bounds the final option list shown at checkout.
	MaxOptions int `json:"max_options"`
}

// SyntheticOption configures a non-carrier option injected by the
// assembler (pickup, admin override).
type SyntheticOption struct {
	DisplayName string `json:"display_name"`
	AmountCents int64  `json:"amount_cents"`
}

type AusPostConfig struct {
	BaseURL             string `json:"base_url"`
	FromPostcode        string `json:"from_postcode"`
	DomesticRegularCode string `json:"domestic_regular_code"`
	DomesticExpressCode string `json:"domestic_express_code"`
	IntlStandardCode    string `json:"intl_standard_code"`
	IntlExpressCode     string `json:"intl_express_code"`
}

type InterparcelConfig struct {
	BaseURL string `json:"base_url"`
	// QuotePagePath is the human-facing quote page scraped during
	// session bootstrap.
	QuotePagePath   string   `json:"quote_page_path"`
	MaxRedirectHops int      `json:"max_redirect_hops"`
	SessionCookie   string   `json:"session_cookie"`
	CarrierDenyList []string `json:"carrier_deny_list"`
	// MaxServices truncates the freight quote list in provider order.
	MaxServices int `json:"max_services"`
}

type OriginAddress struct {
	Postcode string `json:"postcode"`
	City     string `json:"city"`
	State    string `json:"state"`
	Country  string `json:"country"`
}

type Config struct {
	Origin         OriginAddress     `json:"origin"`
	Currency       string            `json:"currency"`
	Thresholds     Thresholds        `json:"thresholds"`
	Pickup         SyntheticOption   `json:"pickup"`
	AdminOption    SyntheticOption   `json:"admin_option"`
	AusPost        AusPostConfig     `json:"auspost"`
	Interparcel    InterparcelConfig `json:"interparcel"`
	TimeoutSeconds int               `json:"timeout_seconds"`
	RequestTimeout time.Duration     `json:"-"`
}

func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "./config/shipping.json"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read shipping config: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse shipping config: %w", err)
	}
	if config.TimeoutSeconds > 0 {
		config.RequestTimeout = time.Duration(config.TimeoutSeconds) * time.Second
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid shipping config: %w", err)
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Origin.Country == "" {
		return fmt.Errorf("origin country must be set")
	}
	if len(config.Currency) != 3 {
		return fmt.Errorf("currency must be a 3-letter code, got %q", config.Currency)
	}
	if config.Thresholds.FreightWeightKg <= 0 {
		return fmt.Errorf("freight_weight_kg must be positive")
	}
	if config.Thresholds.ParcelMaxDimCm <= 0 {
		return fmt.Errorf("parcel_max_dim_cm must be positive")
	}
	if config.Thresholds.MaxOptions <= 0 {
		return fmt.Errorf("max_options must be positive")
	}
	if config.AdminOption.AmountCents <= 0 {
		return fmt.Errorf("admin_option amount must be a nonzero minor unit")
	}
	if config.Interparcel.MaxRedirectHops <= 0 {
		return fmt.Errorf("max_redirect_hops must be positive")
	}
	if config.Interparcel.SessionCookie == "" {
		return fmt.Errorf("interparcel session_cookie must be set")
	}
	if config.Interparcel.MaxServices <= 0 {
		return fmt.Errorf("interparcel max_services must be positive")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		Origin: OriginAddress{
			Postcode: "3095",
			City:     "Eltham",
			State:    "VIC",
			Country:  "AU",
		},
		Currency: "aud",
		Thresholds: Thresholds{
			FreightWeightKg: 20,
			ParcelMaxDimCm:  105,
			MaxOptions:      4,
		},
		Pickup: SyntheticOption{
			DisplayName: "Pickup from Warehouse",
			AmountCents: 0,
		},
		AdminOption: SyntheticOption{
			DisplayName: "Admin Shipping",
			AmountCents: 1,
		},
		AusPost: AusPostConfig{
			BaseURL:             "https://digitalapi.auspost.com.au",
			FromPostcode:        "3095",
			DomesticRegularCode: "AUS_PARCEL_REGULAR",
			DomesticExpressCode: "AUS_PARCEL_EXPRESS",
			IntlStandardCode:    "INT_PARCEL_STD_OWN_PACKAGING",
			IntlExpressCode:     "INT_PARCEL_EXP_OWN_PACKAGING",
		},
		Interparcel: InterparcelConfig{
			BaseURL:         "https://au.interparcel.com",
			QuotePagePath:   "/quote/results",
			MaxRedirectHops: 5,
			SessionCookie:   "ipsession",
			CarrierDenyList: []string{"Aramex", "Couriers Please"},
			MaxServices:     4,
		},
		TimeoutSeconds: 15,
		RequestTimeout: 15 * time.Second,
	}
}

func SaveConfigToFile(config *Config, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
