package shipping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssemble_AdminOptionComesFirst(t *testing.T) {
	cfg := DefaultConfig()
	decision := SelectionDecision{IncludePickup: true}
	carrierOptions := [][]ShippingOption{
		{fakeOption("AusPost Parcel Post", 1495)},
	}

	options := Assemble(cfg, decision, QuoteCaller{IsAdmin: true}, carrierOptions)

	require.Len(t, options, 3)
	assert.Equal(t, "Admin Shipping", options[0].DisplayName)
	assert.Equal(t, int64(1), options[0].AmountCents)
	assert.Equal(t, "Pickup from Warehouse", options[1].DisplayName)
	assert.Equal(t, int64(0), options[1].AmountCents)
	assert.Equal(t, "AusPost Parcel Post", options[2].DisplayName)
}

func TestAssemble_NoSyntheticsForPlainInternational(t *testing.T) {
	cfg := DefaultConfig()
	decision := SelectionDecision{IncludePickup: false}
	carrierOptions := [][]ShippingOption{
		{fakeOption("AusPost International Standard", 4200)},
	}

	options := Assemble(cfg, decision, QuoteCaller{}, carrierOptions)

	require.Len(t, options, 1)
	assert.Equal(t, "AusPost International Standard", options[0].DisplayName)
}

func TestAssemble_TruncatesAtMaxOptions(t *testing.T) {
	cfg := DefaultConfig()
	decision := SelectionDecision{IncludePickup: true}
	carrierOptions := [][]ShippingOption{
		{
			fakeOption("AusPost Parcel Post", 1495),
			fakeOption("AusPost Express Post", 2250),
		},
		{
			fakeOption("TNT Road Express", 3300),
			fakeOption("Hunter Express", 3100),
		},
	}

	options := Assemble(cfg, decision, QuoteCaller{}, carrierOptions)

	require.Len(t, options, cfg.Thresholds.MaxOptions)
	// Pickup survives the cut; later freight options fall off the end.
	assert.Equal(t, "Pickup from Warehouse", options[0].DisplayName)
	assert.Equal(t, "TNT Road Express", options[3].DisplayName)
}

func TestAssemble_DedupeKeepsFirstOccurrence(t *testing.T) {
	cfg := DefaultConfig()
	decision := SelectionDecision{}
	carrierOptions := [][]ShippingOption{
		{fakeOption("TNT Road Express", 3300)},
		{fakeOption("TNT Road Express", 3500), fakeOption("Hunter Express", 3100)},
	}

	options := Assemble(cfg, decision, QuoteCaller{}, carrierOptions)

	require.Len(t, options, 2)
	assert.Equal(t, "TNT Road Express", options[0].DisplayName)
	assert.Equal(t, int64(3300), options[0].AmountCents, "first quote wins on duplicate names")
	assert.Equal(t, "Hunter Express", options[1].DisplayName)
}

func TestAssemble_EmptyCarrierSetsLeaveOnlySynthetics(t *testing.T) {
	cfg := DefaultConfig()
	decision := SelectionDecision{IncludePickup: true}

	options := Assemble(cfg, decision, QuoteCaller{}, [][]ShippingOption{nil, nil})

	require.Len(t, options, 1)
	assert.Equal(t, "Pickup from Warehouse", options[0].DisplayName)
}

func TestAssemble_NothingAtAll(t *testing.T) {
	cfg := DefaultConfig()

	options := Assemble(cfg, SelectionDecision{}, QuoteCaller{}, nil)

	assert.Empty(t, options)
}
