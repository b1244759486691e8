package ledger

import "github.com/daway0/pors/internal/domain/models"

// Identity is an acting-on-behalf-of context. When present on a mutation it
// is merged into the payload (reason, comment) and appended to the URL as the
// override_username query parameter.
type Identity struct {
	Username string
	Reason   string
	Comment  string
}

// Envelope is the common response wrapper; every ledger response carries a
// messages list for uniform display.
type Envelope struct {
	Messages []models.ServerMessage `json:"messages"`
}

// PanelResponse is the session bootstrap payload.
type PanelResponse struct {
	IsOpen             bool          `json:"isOpenForPersonnel"`
	FirstOrderableDate models.Date   `json:"firstOrderableDate"`
	BreakfastItemCap   int           `json:"totalItemsCanOrderedForBreakfastByPersonnel"`
	Buildings          []BuildingDTO `json:"buildings"`
	LatestBuilding     string        `json:"latestBuilding"`
	LatestFloor        string        `json:"latestFloor"`
	GodMode            bool          `json:"godMode"`

	Envelope
}

// BuildingDTO mirrors the two-level delivery catalog.
type BuildingDTO struct {
	Code   string `json:"code"`
	Title  string `json:"title"`
	Floors []struct {
		Code  string `json:"code"`
		Title string `json:"title"`
	} `json:"floors"`
}

// AllItemsResponse lists the full catalog.
type AllItemsResponse struct {
	Items []ItemDTO `json:"items"`

	Envelope
}

// ItemDTO is one catalog item on the wire.
type ItemDTO struct {
	ID            int    `json:"id"`
	ItemName      string `json:"itemName"`
	ItemDesc      string `json:"itemDesc"`
	Image         string `json:"image"`
	ServeTime     string `json:"serveTime"`
	Provider      string `json:"provider"`
	CurrentPrice  int    `json:"currentPrice"`
	IsActive      bool   `json:"isActive"`
	MyFeedback    string `json:"myFeedback"`
	TotalLikes    int    `json:"totalLikes"`
	TotalDislikes int    `json:"totalDislikes"`
}

// CalendarResponse is one month of calendar, menu and order data. A fetch for
// a month is a complete snapshot of that month; nothing is patched in.
type CalendarResponse struct {
	Year           int          `json:"year"`
	Month          int          `json:"month"`
	FirstDayOfWeek int          `json:"firstDayOfWeek"`
	LastDayOfMonth int          `json:"lastDayOfMonth"`
	Holidays       []int        `json:"holidays"`
	DaysWithMenu   []int        `json:"daysWithMenu"`
	OrderedDays    []int        `json:"orderedDays"`
	MenuItems      []DayMenuDTO `json:"menuItems"`
	Orders         []OrderDTO   `json:"orders"`

	Envelope
}

// DayMenuDTO is one day's orderable menu.
type DayMenuDTO struct {
	Date             string        `json:"date"`
	Items            []MenuSlotDTO `json:"items"`
	OpenForBreakfast bool          `json:"openForBreakfast"`
	OpenForLunch     bool          `json:"openForLunch"`
}

// MenuSlotDTO carries the per-day stock counter; null remaining means
// unlimited.
type MenuSlotDTO struct {
	ItemID    int  `json:"itemId"`
	Remaining *int `json:"remaining"`
}

// OrderDTO is the user's existing order for one date.
type OrderDTO struct {
	OrderDate  string                      `json:"orderDate"`
	OrderItems []OrderLineDTO              `json:"orderItems"`
	Delivery   map[string]DeliveryPlaceDTO `json:"delivery"`
	Note       string                      `json:"note"`
}

// OrderLineDTO is one ordered line; pricePerItem is locked at order time.
type OrderLineDTO struct {
	ItemID       int `json:"id"`
	Quantity     int `json:"quantity"`
	PricePerItem int `json:"pricePerItem"`
}

// DeliveryPlaceDTO is a (building, floor) assignment keyed by meal type in
// OrderDTO.Delivery.
type DeliveryPlaceDTO struct {
	Building string `json:"building"`
	Floor    string `json:"floor"`
}

// SubsidyResponse wraps the per-date subsidy amount.
type SubsidyResponse struct {
	Data struct {
		Subsidy int `json:"subsidy"`
	} `json:"data"`

	Envelope
}

// OrderItemRequest is the body of create-order, create-breakfast-order and
// remove-item-from-order.
type OrderItemRequest struct {
	Item   int
	Date   models.Date
	Acting *Identity
}

// DeliveryPlaceRequest is the body of change_order_delivery_place.
type DeliveryPlaceRequest struct {
	Building string
	Floor    string
	Date     models.Date
	Meal     models.MealType
	Acting   *Identity
}

// OrderNoteRequest updates the free-text note of one day's order.
type OrderNoteRequest struct {
	Date   models.Date
	Note   string
	Acting *Identity
}
