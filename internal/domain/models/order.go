package models

// OrderLine is one item of a day's order. The price is locked at order time
// and can differ from the catalog's current price.
type OrderLine struct {
	ItemID       int `json:"itemId"`
	Quantity     int `json:"quantity"`
	PricePerItem int `json:"pricePerItem"`
}

// Order is the user's existing order for one date. There is at most one per
// (user, date); the ledger creates it implicitly on the first successful add
// and remains its source of truth.
type Order struct {
	Date     Date                       `json:"date"`
	Lines    []OrderLine                `json:"lines"`
	Delivery map[MealType]DeliveryPlace `json:"delivery"`
	Note     string                     `json:"note"`
}

// Line returns the order line for an item id, if present.
func (o *Order) Line(itemID int) (*OrderLine, bool) {
	for i := range o.Lines {
		if o.Lines[i].ItemID == itemID {
			return &o.Lines[i], true
		}
	}
	return nil, false
}

// Quantity returns the held quantity for an item, zero when absent.
func (o *Order) Quantity(itemID int) int {
	if o == nil {
		return 0
	}
	if line, ok := o.Line(itemID); ok {
		return line.Quantity
	}
	return 0
}

// Bill is the derived financial summary of one day's order.
type Bill struct {
	Total   int `json:"total"`
	Subsidy int `json:"subsidy"`
	Debt    int `json:"debt"`
}
