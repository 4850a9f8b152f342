package pricing

import "github.com/shopspring/decimal"

// BaseConfigurationPatch holds the fields to change on a base configuration.
// Nil fields are left untouched; an empty CustomValue clears it.
type BaseConfigurationPatch struct {
	Name        *string          `json:"name,omitempty"`
	Type        *ConfigType      `json:"type,omitempty"`
	UnitPrice   *decimal.Decimal `json:"unitPrice,omitempty"`
	CustomValue *string          `json:"customValue,omitempty"`
}

// OptionPatch holds the fields to change on a pricing option.
type OptionPatch struct {
	Name          *string          `json:"name,omitempty"`
	Enabled       *bool            `json:"enabled,omitempty"`
	Default       *bool            `json:"default,omitempty"`
	PriceModifier *decimal.Decimal `json:"priceModifier,omitempty"`
}

// CustomSpecificationPatch holds the fields to change on a custom specification.
type CustomSpecificationPatch struct {
	Name          *string          `json:"name,omitempty"`
	PriceModifier *decimal.Decimal `json:"priceModifier,omitempty"`
}

// Editor is an in-memory draft of a Config. None of its operations persist;
// callers save Config() explicitly. Index-based operations report false and
// leave the draft untouched when the index is out of range.
type Editor struct {
	draft Config
}

// NewEditor starts a draft from a copy of cfg.
func NewEditor(cfg Config) *Editor {
	return &Editor{draft: cfg.Clone()}
}

// Config returns a copy of the current draft.
func (e *Editor) Config() Config {
	return e.draft.Clone()
}

func (e *Editor) AddBaseConfiguration(bc BaseConfiguration) {
	if bc.ID == "" {
		bc.ID = NewID("base")
	}
	e.draft.BaseConfigurations = append(e.draft.BaseConfigurations, bc)
}

// UpdateBaseConfiguration applies patch to the entry at index. Only CUSTOM
// entries keep a custom value.
func (e *Editor) UpdateBaseConfiguration(index int, patch BaseConfigurationPatch) bool {
	if index < 0 || index >= len(e.draft.BaseConfigurations) {
		return false
	}
	bc := &e.draft.BaseConfigurations[index]
	if patch.Name != nil {
		bc.Name = *patch.Name
	}
	if patch.Type != nil {
		bc.Type = *patch.Type
	}
	if patch.UnitPrice != nil {
		bc.UnitPrice = *patch.UnitPrice
	}
	if patch.CustomValue != nil {
		if v := *patch.CustomValue; v != "" {
			bc.CustomValue = &v
		} else {
			bc.CustomValue = nil
		}
	}
	if bc.Type != ConfigTypeCustom {
		bc.CustomValue = nil
	}
	return true
}

func (e *Editor) RemoveBaseConfiguration(index int) bool {
	var ok bool
	e.draft.BaseConfigurations, ok = removeAt(e.draft.BaseConfigurations, index)
	return ok
}

func (e *Editor) AddOption(opt PricingOption) {
	if opt.ID == "" {
		opt.ID = NewID("opt")
	}
	e.draft.Options = append(e.draft.Options, opt)
}

// UpdateOption applies patch to the option at index. Marking an option as
// default clears the default flag on every other option in the list.
func (e *Editor) UpdateOption(index int, patch OptionPatch) bool {
	if index < 0 || index >= len(e.draft.Options) {
		return false
	}
	opt := &e.draft.Options[index]
	if patch.Name != nil {
		opt.Name = *patch.Name
	}
	if patch.Enabled != nil {
		opt.Enabled = *patch.Enabled
	}
	if patch.PriceModifier != nil {
		opt.PriceModifier = *patch.PriceModifier
	}
	if patch.Default != nil {
		opt.Default = *patch.Default
		if *patch.Default {
			for i := range e.draft.Options {
				if i != index {
					e.draft.Options[i].Default = false
				}
			}
		}
	}
	return true
}

func (e *Editor) RemoveOption(index int) bool {
	var ok bool
	e.draft.Options, ok = removeAt(e.draft.Options, index)
	return ok
}

func (e *Editor) AddCustomSpecification(spec CustomSpecification) {
	if spec.ID == "" {
		spec.ID = NewID("spec")
	}
	e.draft.CustomSpecifications = append(e.draft.CustomSpecifications, spec)
}

func (e *Editor) UpdateCustomSpecification(index int, patch CustomSpecificationPatch) bool {
	if index < 0 || index >= len(e.draft.CustomSpecifications) {
		return false
	}
	spec := &e.draft.CustomSpecifications[index]
	if patch.Name != nil {
		spec.Name = *patch.Name
	}
	if patch.PriceModifier != nil {
		spec.PriceModifier = *patch.PriceModifier
	}
	return true
}

func (e *Editor) RemoveCustomSpecification(index int) bool {
	var ok bool
	e.draft.CustomSpecifications, ok = removeAt(e.draft.CustomSpecifications, index)
	return ok
}

// removeAt returns a new slice without s[i], keeping the order of the rest.
func removeAt[T any](s []T, i int) ([]T, bool) {
	if i < 0 || i >= len(s) {
		return s, false
	}
	out := make([]T, 0, len(s)-1)
	out = append(out, s[:i]...)
	out = append(out, s[i+1:]...)
	return out, true
}
