// Package orders holds the read side of placed orders: items with their
// backend-computed price and the pricing choices frozen at order time.
package orders

import (
	"bytes"
	"encoding/json"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// SnapshotLine is one priced choice captured when the order was placed.
type SnapshotLine struct {
	Name          string          `json:"name"`
	PriceModifier decimal.Decimal `json:"priceModifier"`
}

// SnapshotBase is the base configuration captured when the order was placed.
type SnapshotBase struct {
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	CustomValue string          `json:"customValue,omitempty"`
}

// OrderPriceSnapshot is the immutable record of what a customer picked and
// what each pick cost at order time. It has no setters and cannot be turned
// back into an editable pricing config.
type OrderPriceSnapshot struct {
	base        *SnapshotBase
	options     []SnapshotLine
	customSpecs []SnapshotLine
}

// NewOrderPriceSnapshot copies its inputs.
func NewOrderPriceSnapshot(base *SnapshotBase, options, customSpecs []SnapshotLine) OrderPriceSnapshot {
	s := OrderPriceSnapshot{
		options:     append([]SnapshotLine(nil), options...),
		customSpecs: append([]SnapshotLine(nil), customSpecs...),
	}
	if base != nil {
		b := *base
		s.base = &b
	}
	return s
}

func (s OrderPriceSnapshot) Base() (SnapshotBase, bool) {
	if s.base == nil {
		return SnapshotBase{}, false
	}
	return *s.base, true
}

func (s OrderPriceSnapshot) Options() []SnapshotLine {
	return append([]SnapshotLine(nil), s.options...)
}

func (s OrderPriceSnapshot) CustomSpecs() []SnapshotLine {
	return append([]SnapshotLine(nil), s.customSpecs...)
}

func (s OrderPriceSnapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		BaseConfiguration *SnapshotBase  `json:"baseConfiguration,omitempty"`
		Options           []SnapshotLine `json:"options"`
		CustomSpecs       []SnapshotLine `json:"customSpecs"`
	}{s.base, nonNil(s.options), nonNil(s.customSpecs)})
}

func nonNil(lines []SnapshotLine) []SnapshotLine {
	if lines == nil {
		return []SnapshotLine{}
	}
	return lines
}

// ClerkOrderItem is one line item of a placed order as the backend reports it.
type ClerkOrderItem struct {
	ID              string
	OrderID         string
	ServiceName     string
	Quantity        int64
	CalculatedPrice decimal.Decimal
	Status          string
	FileURL         string
	FileName        string
	Snapshot        OrderPriceSnapshot
}

type rawOrderItem struct {
	ID                    string          `json:"id"`
	OrderID               string          `json:"orderId"`
	ServiceName           string          `json:"serviceName"`
	Quantity              int64           `json:"quantity"`
	CalculatedPrice       decimal.Decimal `json:"calculatedPrice"`
	Status                string          `json:"status"`
	FileURL               string          `json:"fileUrl"`
	FileName              string          `json:"fileName"`
	SelectedConfigDetails json.RawMessage `json:"selectedConfigDetails"`
	Options               json.RawMessage `json:"options"`
}

type rawConfigDetails struct {
	BaseConfiguration json.RawMessage `json:"baseConfiguration"`
	Options           json.RawMessage `json:"options"`
	CustomSpecs       json.RawMessage `json:"customSpecs"`
}

// UnmarshalJSON normalizes the loosely typed selection fields once, here.
// Malformed shapes become an empty snapshot rather than an error.
func (it *ClerkOrderItem) UnmarshalJSON(data []byte) error {
	var raw rawOrderItem
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*it = ClerkOrderItem{
		ID:              raw.ID,
		OrderID:         raw.OrderID,
		ServiceName:     raw.ServiceName,
		Quantity:        raw.Quantity,
		CalculatedPrice: raw.CalculatedPrice,
		Status:          raw.Status,
		FileURL:         raw.FileURL,
		FileName:        raw.FileName,
	}

	var details rawConfigDetails
	if obj := unwrapString(raw.SelectedConfigDetails); len(obj) > 0 {
		_ = json.Unmarshal(obj, &details)
	}
	if len(details.Options) == 0 {
		// Older orders keep the selection on the item itself.
		details.Options = raw.Options
	}

	it.Snapshot = NewOrderPriceSnapshot(
		parseBase(details.BaseConfiguration),
		parseLines(details.Options),
		parseLines(details.CustomSpecs),
	)
	return nil
}

func (it ClerkOrderItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID                    string             `json:"id"`
		OrderID               string             `json:"orderId"`
		ServiceName           string             `json:"serviceName"`
		Quantity              int64              `json:"quantity"`
		CalculatedPrice       decimal.Decimal    `json:"calculatedPrice"`
		Status                string             `json:"status"`
		FileURL               string             `json:"fileUrl,omitempty"`
		FileName              string             `json:"fileName,omitempty"`
		SelectedConfigDetails OrderPriceSnapshot `json:"selectedConfigDetails"`
	}{it.ID, it.OrderID, it.ServiceName, it.Quantity, it.CalculatedPrice, it.Status, it.FileURL, it.FileName, it.Snapshot})
}

// ParseOrderItem decodes a single backend order item.
func ParseOrderItem(data []byte) (ClerkOrderItem, error) {
	var it ClerkOrderItem
	err := json.Unmarshal(data, &it)
	return it, err
}

// unwrapString returns the JSON inside a JSON string, or data unchanged.
func unwrapString(data json.RawMessage) json.RawMessage {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] != '"' {
		return data
	}
	var inner string
	if err := json.Unmarshal(data, &inner); err != nil {
		return nil
	}
	return bytes.TrimSpace([]byte(inner))
}

func parseBase(data json.RawMessage) *SnapshotBase {
	data = unwrapString(data)
	if len(data) == 0 || data[0] != '{' {
		return nil
	}
	var base struct {
		Name        string          `json:"name"`
		Type        string          `json:"type"`
		UnitPrice   decimal.Decimal `json:"unitPrice"`
		CustomValue *string         `json:"customValue"`
	}
	if err := json.Unmarshal(data, &base); err != nil || base.Name == "" {
		return nil
	}
	out := &SnapshotBase{Name: base.Name, Type: base.Type, UnitPrice: base.UnitPrice}
	if base.CustomValue != nil {
		out.CustomValue = *base.CustomValue
	}
	return out
}

type rawLine struct {
	Name          string           `json:"name"`
	PriceModifier *decimal.Decimal `json:"priceModifier"`
	Price         *decimal.Decimal `json:"price"`
}

func (l rawLine) line() SnapshotLine {
	out := SnapshotLine{Name: l.Name}
	switch {
	case l.PriceModifier != nil:
		out.PriceModifier = *l.PriceModifier
	case l.Price != nil:
		out.PriceModifier = *l.Price
	}
	return out
}

// parseLines accepts an array of {name, priceModifier|price} objects or an
// object keyed by name whose values are a number, a bool flag or such an object.
func parseLines(data json.RawMessage) []SnapshotLine {
	data = unwrapString(data)
	if len(data) == 0 {
		return nil
	}

	switch data[0] {
	case '[':
		var items []rawLine
		if err := json.Unmarshal(data, &items); err != nil {
			return nil
		}
		out := make([]SnapshotLine, 0, len(items))
		for _, item := range items {
			if item.Name != "" {
				out = append(out, item.line())
			}
		}
		return out
	case '{':
		var byName map[string]json.RawMessage
		if err := json.Unmarshal(data, &byName); err != nil {
			return nil
		}
		names := make([]string, 0, len(byName))
		for name := range byName {
			names = append(names, name)
		}
		sort.Strings(names)

		out := make([]SnapshotLine, 0, len(names))
		for _, name := range names {
			if line, ok := parseNamedValue(name, byName[name]); ok {
				out = append(out, line)
			}
		}
		return out
	}
	return nil
}

func parseNamedValue(name string, value json.RawMessage) (SnapshotLine, bool) {
	value = bytes.TrimSpace(value)
	if len(value) == 0 {
		return SnapshotLine{}, false
	}
	switch value[0] {
	case 't':
		return SnapshotLine{Name: name}, true
	case 'f', 'n':
		return SnapshotLine{}, false
	case '{':
		var item rawLine
		if err := json.Unmarshal(value, &item); err != nil {
			return SnapshotLine{}, false
		}
		if item.Name == "" {
			item.Name = name
		}
		return item.line(), true
	}
	var amount decimal.Decimal
	if err := amount.UnmarshalJSON(value); err != nil {
		return SnapshotLine{}, false
	}
	return SnapshotLine{Name: name, PriceModifier: amount}, true
}

// Order is a placed order as listed for a branch.
type Order struct {
	ID          string           `json:"id"`
	OrderNumber string           `json:"orderNumber"`
	BranchID    string           `json:"branchId"`
	Status      string           `json:"status"`
	Category    string           `json:"category"`
	TotalAmount decimal.Decimal  `json:"totalAmount"`
	CreatedAt   time.Time        `json:"createdAt"`
	Items       []ClerkOrderItem `json:"items,omitempty"`
}
