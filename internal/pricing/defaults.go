package pricing

import (
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
)

const bondPaperMarker = "bond paper"

var idSeq atomic.Int64

// NewID returns a timestamp-derived identifier for a new draft entry.
// A process-wide sequence keeps IDs minted in the same millisecond apart.
func NewID(prefix string) string {
	ms := time.Now().UnixMilli()
	n := idSeq.Add(1)
	return prefix + "-" + strconv.FormatInt(ms, 10) + "-" + strconv.FormatInt(n, 10)
}

type presetSize struct {
	name  string
	price string
}

var bondPaperSizes = []presetSize{
	{"A6", "0.40"},
	{"A5", "0.50"},
	{"A4", "0.60"},
	{"A3", "0.80"},
}

// DefaultConfig builds the starting pricing configuration for svc before a
// manager customizes it. Missing template or subcategory data falls back to
// the generic sizes.
func DefaultConfig(svc AgentService) Config {
	cfg := Config{
		BaseConfigurations:   defaultBaseConfigurations(svc),
		Options:              defaultOptions(svc),
		CustomSpecifications: []CustomSpecification{},
	}
	return cfg
}

func isBondPaper(svc AgentService) bool {
	if svc.SubCategory == nil {
		return false
	}
	return strings.Contains(strings.ToLower(svc.SubCategory.Name), bondPaperMarker)
}

func defaultBaseConfigurations(svc AgentService) []BaseConfiguration {
	if !isBondPaper(svc) {
		return []BaseConfiguration{
			{ID: NewID("base"), Name: "Standard Size", Type: ConfigTypePreset, UnitPrice: decimal.Zero},
			{ID: NewID("base"), Name: "Custom Size", Type: ConfigTypeCustom, UnitPrice: decimal.Zero},
		}
	}

	out := make([]BaseConfiguration, 0, len(bondPaperSizes)+1)
	for _, size := range bondPaperSizes {
		out = append(out, BaseConfiguration{
			ID:        NewID("base"),
			Name:      size.name,
			Type:      ConfigTypePreset,
			UnitPrice: decimal.RequireFromString(size.price),
		})
	}
	out = append(out, BaseConfiguration{
		ID:        NewID("base"),
		Name:      "Custom Size",
		Type:      ConfigTypeCustom,
		UnitPrice: decimal.NewFromInt(1),
	})
	return out
}

func defaultOptions(svc AgentService) []PricingOption {
	options := []PricingOption{
		{ID: NewID("opt"), Name: "Black & White", Enabled: true, Default: true, PriceModifier: decimal.Zero},
		{ID: NewID("opt"), Name: "Front Only", Enabled: true, Default: true, PriceModifier: decimal.Zero},
	}

	if svc.SupportsColor {
		options = append(options, capabilityOption("Color", "0.25"))
	}
	if svc.SupportsFrontBack {
		options = append(options, capabilityOption("Front & Back", "0.10"))
	}
	if svc.SupportsPrintCut {
		options = append(options, capabilityOption("Print & Cut", "0.15"))
	}
	return options
}

func capabilityOption(name, modifier string) PricingOption {
	return PricingOption{
		ID:            NewID("opt"),
		Name:          name,
		Enabled:       true,
		PriceModifier: decimal.RequireFromString(modifier),
	}
}
