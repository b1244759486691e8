package session

import (
	"context"

	"go.uber.org/zap"

	"github.com/daway0/pors/internal/domain/models"
	"github.com/daway0/pors/pkg/clients/ledger"
)

// OrderMutator applies single-unit add and remove operations. Every mutation
// is confirm-then-mutate: the ledger call goes first and the local model only
// changes on a confirmed response. After a confirmed mutation the whole month
// is re-fetched so counters converge with other sessions; that re-sync is
// best effort and never fails the mutation.
type OrderMutator struct {
	s *Session
}

// addItem adds one unit of an item to the order of a date. When no delivery
// place is known yet the intent is parked and the caller is told to run the
// delivery cascade first.
func (m *OrderMutator) addItem(ctx context.Context, date models.Date, itemID int) error {
	if !m.s.state.Open {
		return ErrSystemClosed
	}
	if err := m.s.menu.checkAdd(date, itemID); err != nil {
		return err
	}

	item := m.s.state.Catalog[itemID]
	if !m.s.delivery.placeKnown() {
		m.s.delivery.deferAdd(date, itemID, item.MealType)
		return ErrDeliveryPlaceRequired
	}

	req := ledger.OrderItemRequest{
		Item:   itemID,
		Date:   date,
		Acting: m.s.acting.Identity(),
	}
	var env *ledger.Envelope
	var err error
	if item.MealType == models.MealBreakfast {
		env, err = m.s.client.CreateBreakfastOrderItem(ctx, req)
	} else {
		env, err = m.s.client.CreateOrderItem(ctx, req)
	}
	if err != nil {
		return err
	}
	m.s.messages.publish(env.Messages...)

	order := m.s.state.ensureOrder(date)
	if line, ok := order.Line(itemID); ok {
		line.Quantity++
	} else {
		order.Lines = append(order.Lines, models.OrderLine{
			ItemID:       itemID,
			Quantity:     1,
			PricePerItem: item.CurrentPrice,
		})
	}
	m.s.menu.consumeStock(date, itemID)
	m.markOrdered(date, true)
	m.s.refreshBill()
	m.resync(ctx, date)
	return nil
}

// removeItem removes one unit of an item from the order of a date.
func (m *OrderMutator) removeItem(ctx context.Context, date models.Date, itemID int) error {
	if !m.s.state.Open {
		return ErrSystemClosed
	}
	if err := m.s.menu.checkRemove(date, itemID); err != nil {
		return err
	}

	env, err := m.s.client.RemoveOrderItem(ctx, ledger.OrderItemRequest{
		Item:   itemID,
		Date:   date,
		Acting: m.s.acting.Identity(),
	})
	if err != nil {
		return err
	}
	m.s.messages.publish(env.Messages...)

	order := m.s.state.order(date)
	if line, ok := order.Line(itemID); ok {
		line.Quantity--
		if line.Quantity <= 0 {
			m.dropLine(order, itemID)
		}
	}
	m.s.menu.restock(date, itemID)
	if len(order.Lines) == 0 {
		m.markOrdered(date, false)
	}
	m.s.refreshBill()
	m.resync(ctx, date)
	return nil
}

// setNote updates the free-text note attached to a day's order.
func (m *OrderMutator) setNote(ctx context.Context, date models.Date, note string) error {
	if !m.s.state.Open {
		return ErrSystemClosed
	}
	if m.s.state.order(date) == nil {
		return ErrNoOrderForDate
	}

	env, err := m.s.client.SetOrderNote(ctx, ledger.OrderNoteRequest{
		Date:   date,
		Note:   note,
		Acting: m.s.acting.Identity(),
	})
	if err != nil {
		return err
	}
	m.s.messages.publish(env.Messages...)

	m.s.state.order(date).Note = note
	return nil
}

func (m *OrderMutator) dropLine(order *models.Order, itemID int) {
	for i, line := range order.Lines {
		if line.ItemID == itemID {
			order.Lines = append(order.Lines[:i], order.Lines[i+1:]...)
			return
		}
	}
}

// markOrdered flips the has-order marker of the date in its month calendar.
func (m *OrderMutator) markOrdered(date models.Date, ordered bool) {
	monthCal, ok := m.s.state.Months[date.Key()]
	if !ok {
		return
	}
	for i := range monthCal.Days {
		if monthCal.Days[i].Date.Day == date.Day {
			monthCal.Days[i].HasOrder = ordered
		}
	}
	m.s.state.Months[date.Key()] = monthCal
}

// resync re-fetches the mutated month. Failures are logged, not surfaced: the
// local model already reflects the confirmed mutation.
func (m *OrderMutator) resync(ctx context.Context, date models.Date) {
	if err := m.s.calendar.fetchMonth(ctx, date.Year, date.Month); err != nil {
		m.s.logger.Warn("month re-sync after mutation failed",
			zap.Int("year", date.Year),
			zap.Int("month", date.Month),
			zap.Error(err))
	}
}
