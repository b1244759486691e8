package session

import "github.com/daway0/pors/internal/domain/models"

// Snapshot is a read-only view of the session assembled under the lock. The
// transport layer serializes it as-is; handlers never reach into State.
type Snapshot struct {
	Username      string               `json:"username"`
	Open          bool                 `json:"isOpenForPersonnel"`
	GodMode       bool                 `json:"godMode"`
	Impersonating string               `json:"impersonating,omitempty"`
	Today         models.Date          `json:"today"`
	Selected      models.Date          `json:"selectedDate"`
	BreakfastCap  int                  `json:"breakfastItemCap"`
	Month         models.MonthCalendar `json:"month"`
	Menu          []MenuItemView       `json:"menu"`
	Order         *models.Order        `json:"order,omitempty"`
	Bill          models.Bill          `json:"bill"`
	Buildings     []models.Building    `json:"buildings"`
	DeliveryKnown bool                 `json:"deliveryPlaceKnown"`
	LatestPlace   models.DeliveryPlace `json:"latestDeliveryPlace"`
}

// MenuItemView joins the catalog item with its per-day stock, the quantity
// already ordered and the caller's feedback on it.
type MenuItemView struct {
	models.MenuItem

	Remaining *int                `json:"remaining"`
	Quantity  int                 `json:"quantity"`
	Feedback  models.ItemFeedback `json:"feedback"`
}

// snapshot builds the view for the selected date. Lock must be held. The view
// is detached from the live model: serialization happens after the lock is
// released, so nothing in it may alias state a later mutation touches.
func (s *Session) snapshot() Snapshot {
	state := s.state
	snap := Snapshot{
		Username:      s.username,
		Open:          state.Open,
		GodMode:       state.GodMode,
		Impersonating: s.acting.Target(),
		Today:         state.Today,
		Selected:      state.Selected,
		BreakfastCap:  state.BreakfastCap,
		Month:         cloneMonth(state.Months[state.Selected.Key()]),
		Order:         cloneOrder(state.order(state.Selected)),
		Bill:          state.Bill,
		Buildings:     cloneBuildings(state.Buildings),
		DeliveryKnown: s.delivery.placeKnown(),
		LatestPlace:   s.delivery.latest,
	}

	if entry := state.menu(state.Selected); entry != nil {
		order := state.order(state.Selected)
		for _, slot := range entry.Items {
			item, ok := state.Catalog[slot.ItemID]
			if !ok {
				continue
			}
			view := MenuItemView{
				MenuItem:  item,
				Remaining: cloneRemaining(slot.Remaining),
				Quantity:  order.Quantity(slot.ItemID),
			}
			if fb := state.Feedback[slot.ItemID]; fb != nil {
				view.Feedback = *fb
			}
			snap.Menu = append(snap.Menu, view)
		}
	}
	return snap
}

func cloneMonth(month models.MonthCalendar) models.MonthCalendar {
	month.Days = append([]models.CalendarDay(nil), month.Days...)
	return month
}

func cloneOrder(order *models.Order) *models.Order {
	if order == nil {
		return nil
	}
	clone := *order
	clone.Lines = append([]models.OrderLine(nil), order.Lines...)
	clone.Delivery = make(map[models.MealType]models.DeliveryPlace, len(order.Delivery))
	for meal, place := range order.Delivery {
		clone.Delivery[meal] = place
	}
	return &clone
}

func cloneBuildings(buildings []models.Building) []models.Building {
	clones := make([]models.Building, 0, len(buildings))
	for _, b := range buildings {
		b.Floors = append([]models.Floor(nil), b.Floors...)
		clones = append(clones, b)
	}
	return clones
}

func cloneRemaining(remaining *int) *int {
	if remaining == nil {
		return nil
	}
	v := *remaining
	return &v
}
