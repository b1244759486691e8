package session

import "github.com/daway0/pors/internal/domain/models"

// DayMenuResolver answers what is orderable on a date and enforces the local
// preconditions of an add: edit window, breakfast cap, then stock, in that
// order (the capacity message must win when both would apply).
type DayMenuResolver struct {
	s *Session
}

// Resolve returns the menu entry of a date. ok is false when the catalog has
// no menu for that date; callers treat that as "nothing orderable".
func (r *DayMenuResolver) Resolve(date models.Date) (*models.DayMenuEntry, bool) {
	entry := r.s.state.menu(date)
	return entry, entry != nil
}

// checkAdd validates an add-item intent against the day's menu and the
// current order. Never issues network calls.
func (r *DayMenuResolver) checkAdd(date models.Date, itemID int) error {
	entry, ok := r.Resolve(date)
	if !ok {
		return ErrNoMenuForDate
	}

	item, ok := r.s.state.Catalog[itemID]
	if !ok {
		return ErrUnknownItem
	}
	slot, ok := entry.Slot(itemID)
	if !ok {
		return ErrItemNotOnMenu
	}

	if !entry.OpenFor(item.MealType) {
		return ErrEditWindowClosed
	}

	// Capacity before stock.
	if item.MealType == models.MealBreakfast {
		if r.mealQuantity(date, models.MealBreakfast) >= r.s.state.BreakfastCap {
			return &CapacityError{Max: r.s.state.BreakfastCap}
		}
	}

	// A zero counter always rejects additions, even when this session
	// consumed the last unit itself; the own decrement only keeps removal
	// possible.
	if slot.Remaining != nil && *slot.Remaining <= 0 {
		return ErrOutOfStock
	}

	return nil
}

// checkRemove validates a remove-item intent.
func (r *DayMenuResolver) checkRemove(date models.Date, itemID int) error {
	entry, ok := r.Resolve(date)
	if !ok {
		return ErrNoMenuForDate
	}
	item, ok := r.s.state.Catalog[itemID]
	if !ok {
		return ErrUnknownItem
	}
	if !entry.OpenFor(item.MealType) {
		return ErrEditWindowClosed
	}
	if r.s.state.order(date).Quantity(itemID) <= 0 {
		return ErrNothingToRemove
	}
	return nil
}

// mealQuantity sums the ordered quantity of one meal type across the whole
// order of a date.
func (r *DayMenuResolver) mealQuantity(date models.Date, meal models.MealType) int {
	order := r.s.state.order(date)
	if order == nil {
		return 0
	}

	sum := 0
	for _, line := range order.Lines {
		if item, ok := r.s.state.Catalog[line.ItemID]; ok && item.MealType == meal {
			sum += line.Quantity
		}
	}
	return sum
}

// consumeStock decrements the remaining counter of an item after a confirmed
// add. No-op for unlimited items.
func (r *DayMenuResolver) consumeStock(date models.Date, itemID int) {
	if entry, ok := r.Resolve(date); ok {
		if slot, ok := entry.Slot(itemID); ok && slot.Remaining != nil && *slot.Remaining > 0 {
			*slot.Remaining--
		}
	}
}

// restock increments the remaining counter after a confirmed remove.
func (r *DayMenuResolver) restock(date models.Date, itemID int) {
	if entry, ok := r.Resolve(date); ok {
		if slot, ok := entry.Slot(itemID); ok && slot.Remaining != nil {
			*slot.Remaining++
		}
	}
}
