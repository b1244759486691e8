package models

// MealType is one of the two independent ordering tracks of a day.
type MealType string

const (
	MealBreakfast MealType = "BRF"
	MealLunch     MealType = "LNC"
)

// Valid reports whether the value is one of the known meal types.
func (m MealType) Valid() bool {
	return m == MealBreakfast || m == MealLunch
}

// MenuItem is a catalog entry. Immutable during a session; only the per-day
// remaining counter (tracked on DayMenuEntry) moves.
type MenuItem struct {
	ID           int      `json:"id"`
	Name         string   `json:"itemName"`
	Description  string   `json:"itemDesc"`
	Image        string   `json:"image"`
	MealType     MealType `json:"serveTime"`
	Provider     string   `json:"provider"`
	CurrentPrice int      `json:"currentPrice"`
	IsActive     bool     `json:"isActive"`
}

// MenuSlot places one catalog item on a day's menu. Remaining is the per-day
// stock counter; nil means unlimited.
type MenuSlot struct {
	ItemID    int  `json:"itemId"`
	Remaining *int `json:"remaining"`
}

// DayMenuEntry is the orderable menu of a single date. The edit-window flags
// come from the ledger and are the only authority on editability.
type DayMenuEntry struct {
	Date             Date       `json:"date"`
	Items            []MenuSlot `json:"items"`
	OpenForBreakfast bool       `json:"openForBreakfast"`
	OpenForLunch     bool       `json:"openForLunch"`
}

// Slot finds the menu slot for an item id.
func (e *DayMenuEntry) Slot(itemID int) (*MenuSlot, bool) {
	for i := range e.Items {
		if e.Items[i].ItemID == itemID {
			return &e.Items[i], true
		}
	}
	return nil, false
}

// OpenFor reports whether the given meal type is still editable on this date.
func (e *DayMenuEntry) OpenFor(meal MealType) bool {
	if meal == MealBreakfast {
		return e.OpenForBreakfast
	}
	return e.OpenForLunch
}
