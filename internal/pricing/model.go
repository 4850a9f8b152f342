package pricing

import (
	"github.com/shopspring/decimal"
)

// ConfigType distinguishes fixed size tiers from free-form ones.
type ConfigType string

const (
	ConfigTypePreset ConfigType = "PRESET"
	ConfigTypeCustom ConfigType = "CUSTOM"
)

// BaseConfiguration is a selectable size/format tier for a service.
type BaseConfiguration struct {
	ID          string          `json:"id"`
	Name        string          `json:"name" validate:"required"`
	Type        ConfigType      `json:"type" validate:"required,oneof=PRESET CUSTOM"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	CustomValue *string         `json:"customValue"`
}

// PricingOption is a toggle that adds PriceModifier when selected.
type PricingOption struct {
	ID            string          `json:"id"`
	Name          string          `json:"name" validate:"required"`
	Enabled       bool            `json:"enabled"`
	Default       bool            `json:"default"`
	PriceModifier decimal.Decimal `json:"priceModifier"`
}

// CustomSpecification is an always-optional additive add-on.
type CustomSpecification struct {
	ID            string          `json:"id"`
	Name          string          `json:"name" validate:"required"`
	PriceModifier decimal.Decimal `json:"priceModifier"`
}

// Config is the flexible pricing rule set of one agent service.
// It is replaced wholesale on every save.
type Config struct {
	BaseConfigurations   []BaseConfiguration   `json:"baseConfigurations" validate:"dive"`
	Options              []PricingOption       `json:"options" validate:"dive"`
	CustomSpecifications []CustomSpecification `json:"customSpecifications" validate:"dive"`
}

// Clone returns a deep copy of c.
func (c Config) Clone() Config {
	out := Config{
		BaseConfigurations:   make([]BaseConfiguration, len(c.BaseConfigurations)),
		Options:              make([]PricingOption, len(c.Options)),
		CustomSpecifications: make([]CustomSpecification, len(c.CustomSpecifications)),
	}
	for i, bc := range c.BaseConfigurations {
		if bc.CustomValue != nil {
			v := *bc.CustomValue
			bc.CustomValue = &v
		}
		out.BaseConfigurations[i] = bc
	}
	copy(out.Options, c.Options)
	copy(out.CustomSpecifications, c.CustomSpecifications)
	return out
}

// ServiceTemplate is a platform-defined service a branch can offer.
type ServiceTemplate struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SubCategory groups service templates, e.g. "Bond Paper".
type SubCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AgentService is a branch's configured instance of a ServiceTemplate.
type AgentService struct {
	ID                string           `json:"id"`
	BranchID          string           `json:"branchId"`
	ServiceTemplate   *ServiceTemplate `json:"serviceTemplate,omitempty"`
	SubCategory       *SubCategory     `json:"subCategory,omitempty"`
	SupportsColor     bool             `json:"supportsColor"`
	SupportsFrontBack bool             `json:"supportsFrontBack"`
	SupportsPrintCut  bool             `json:"supportsPrintCut"`
	IsActive          bool             `json:"isActive"`
	// UnitPrice is the legacy per-unit price kept alongside PricingConfig.
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	PricingConfig *Config         `json:"pricingConfig,omitempty"`
}

// Name returns the template name or an empty string.
func (s AgentService) Name() string {
	if s.ServiceTemplate == nil {
		return ""
	}
	return s.ServiceTemplate.Name
}
