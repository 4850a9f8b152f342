package orders

import "github.com/shopspring/decimal"

// Badge is an informational label for one frozen selection.
type Badge struct {
	Kind  string `json:"kind"`
	Label string `json:"label"`
	Price string `json:"price"`
}

// ItemView is an order item ready for display.
type ItemView struct {
	ID          string  `json:"id"`
	ServiceName string  `json:"serviceName"`
	Quantity    int64   `json:"quantity"`
	Price       string  `json:"price"`
	Base        string  `json:"base,omitempty"`
	Status      string  `json:"status"`
	FileURL     string  `json:"fileUrl,omitempty"`
	Badges      []Badge `json:"badges"`
}

// FormatMoney renders amount with two decimals behind the currency prefix.
func FormatMoney(currency string, amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-" + currency + amount.Abs().StringFixed(2)
	}
	return currency + amount.StringFixed(2)
}

// Display formats it without recomputing anything: the price is the
// backend's calculatedPrice and each badge shows its order-time modifier.
func Display(it ClerkOrderItem, currency string) ItemView {
	view := ItemView{
		ID:          it.ID,
		ServiceName: it.ServiceName,
		Quantity:    it.Quantity,
		Price:       FormatMoney(currency, it.CalculatedPrice),
		Status:      it.Status,
		FileURL:     it.FileURL,
		Badges:      []Badge{},
	}
	if base, ok := it.Snapshot.Base(); ok {
		view.Base = base.Name
		if base.CustomValue != "" {
			view.Base += " (" + base.CustomValue + ")"
		}
	}
	for _, opt := range it.Snapshot.Options() {
		view.Badges = append(view.Badges, Badge{Kind: "option", Label: opt.Name, Price: signedMoney(currency, opt.PriceModifier)})
	}
	for _, spec := range it.Snapshot.CustomSpecs() {
		view.Badges = append(view.Badges, Badge{Kind: "customSpec", Label: spec.Name, Price: signedMoney(currency, spec.PriceModifier)})
	}
	return view
}

func signedMoney(currency string, amount decimal.Decimal) string {
	if amount.IsNegative() {
		return FormatMoney(currency, amount)
	}
	return "+" + FormatMoney(currency, amount)
}
