package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrUnknownBaseConfiguration   = errors.New("unknown base configuration")
	ErrUnknownOption              = errors.New("unknown option")
	ErrOptionDisabled             = errors.New("option is disabled")
	ErrUnknownCustomSpecification = errors.New("unknown custom specification")
	ErrInvalidQuantity            = errors.New("quantity must be at least 1")
	ErrInvalidArea                = errors.New("area must be greater than 0")
)

// Selection is what a customer picks from a Config for one order item.
type Selection struct {
	BaseConfigurationID    string   `json:"baseConfigurationId"`
	OptionIDs              []string `json:"optionIds"`
	CustomSpecificationIDs []string `json:"customSpecificationIds"`
	Quantity               int64    `json:"quantity"`
	// Area scales the unit price for sized work; zero means 1.
	Area decimal.Decimal `json:"area"`
}

// Breakdown contains every line that contributes to the unit price.
type Breakdown struct {
	BaseName      string          `json:"baseName"`
	BaseUnitPrice decimal.Decimal `json:"baseUnitPrice"`
	OptionsTotal  decimal.Decimal `json:"optionsTotal"`
	CustomSpecs   decimal.Decimal `json:"customSpecsTotal"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	Area          decimal.Decimal `json:"area"`
	Quantity      int64           `json:"quantity"`
}

// Totals contains roll-up values of a quote.
type Totals struct {
	Total decimal.Decimal `json:"total"`
}

// Result groups the breakdown and totals of a quote.
type Result struct {
	Breakdown Breakdown `json:"breakdown"`
	Totals    Totals    `json:"totals"`
}

// Quote previews the price of sel under cfg:
// (base unit price + option modifiers + custom spec modifiers) x area x quantity,
// rounded to cents. Already placed orders carry their own backend price and are
// never quoted again.
func Quote(cfg Config, sel Selection) (Result, error) {
	if sel.Quantity < 1 {
		return Result{}, ErrInvalidQuantity
	}
	area := sel.Area
	if area.IsZero() {
		area = decimal.NewFromInt(1)
	}
	if !area.IsPositive() {
		return Result{}, ErrInvalidArea
	}

	base, ok := findBase(cfg, sel.BaseConfigurationID)
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownBaseConfiguration, sel.BaseConfigurationID)
	}

	optionsTotal := decimal.Zero
	for _, id := range sel.OptionIDs {
		opt, ok := findOption(cfg, id)
		if !ok {
			return Result{}, fmt.Errorf("%w: %s", ErrUnknownOption, id)
		}
		if !opt.Enabled {
			return Result{}, fmt.Errorf("%w: %s", ErrOptionDisabled, opt.Name)
		}
		optionsTotal = optionsTotal.Add(opt.PriceModifier)
	}

	specsTotal := decimal.Zero
	for _, id := range sel.CustomSpecificationIDs {
		spec, ok := findCustomSpecification(cfg, id)
		if !ok {
			return Result{}, fmt.Errorf("%w: %s", ErrUnknownCustomSpecification, id)
		}
		specsTotal = specsTotal.Add(spec.PriceModifier)
	}

	unit := base.UnitPrice.Add(optionsTotal).Add(specsTotal)
	total := unit.Mul(area).Mul(decimal.NewFromInt(sel.Quantity)).Round(2)

	return Result{
		Breakdown: Breakdown{
			BaseName:      base.Name,
			BaseUnitPrice: base.UnitPrice,
			OptionsTotal:  optionsTotal,
			CustomSpecs:   specsTotal,
			UnitPrice:     unit,
			Area:          area,
			Quantity:      sel.Quantity,
		},
		Totals: Totals{Total: total},
	}, nil
}

func findBase(cfg Config, id string) (BaseConfiguration, bool) {
	for _, bc := range cfg.BaseConfigurations {
		if bc.ID == id {
			return bc, true
		}
	}
	return BaseConfiguration{}, false
}

func findOption(cfg Config, id string) (PricingOption, bool) {
	for _, opt := range cfg.Options {
		if opt.ID == id {
			return opt, true
		}
	}
	return PricingOption{}, false
}

func findCustomSpecification(cfg Config, id string) (CustomSpecification, bool) {
	for _, spec := range cfg.CustomSpecifications {
		if spec.ID == id {
			return spec, true
		}
	}
	return CustomSpecification{}, false
}
