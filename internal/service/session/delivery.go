package session

import (
	"context"

	"go.uber.org/zap"

	"github.com/daway0/pors/internal/domain/models"
	"github.com/daway0/pors/pkg/clients/ledger"
)

type deliveryPhase int

const (
	deliveryUnset deliveryPhase = iota
	deliveryPending
	deliverySet
)

// DeliveryPlaceSelector runs the two-step building-then-floor cascade and
// owns the single deferred add-item slot. Choosing a building resets any
// prior floor choice; only a floor choice commits a place to the ledger.
type DeliveryPlaceSelector struct {
	s *Session

	phase    deliveryPhase
	building string

	// latest is the last place the ledger confirmed for this user, seeded
	// from the panel bootstrap. When set, adds never block on delivery.
	latest models.DeliveryPlace

	intent *models.PendingIntent
}

// placeKnown reports whether an add may proceed without a delivery choice.
func (d *DeliveryPlaceSelector) placeKnown() bool {
	return d.latest.IsSet() || d.phase == deliverySet
}

// deferAdd records an add intent to replay after the cascade completes. A
// second deferred add overwrites the first; the slot holds at most one intent.
func (d *DeliveryPlaceSelector) deferAdd(date models.Date, itemID int, meal models.MealType) {
	d.intent = &models.PendingIntent{ItemID: itemID, Date: date, Meal: meal}
}

// selectBuilding validates the building code and arms the floor step. Local
// only; nothing is sent to the ledger until a floor is chosen.
func (d *DeliveryPlaceSelector) selectBuilding(code string) error {
	if _, ok := d.s.state.building(code); !ok {
		return ErrUnknownBuilding
	}
	d.phase = deliveryPending
	d.building = code
	return nil
}

// selectFloor commits the building+floor pair for the selected date and meal,
// then replays the deferred add intent if one is waiting. The intent is
// consumed exactly once, whatever its outcome.
func (d *DeliveryPlaceSelector) selectFloor(ctx context.Context, meal models.MealType, floor string) error {
	if d.phase != deliveryPending {
		return ErrNoBuildingChosen
	}
	building, ok := d.s.state.building(d.building)
	if !ok {
		return ErrUnknownBuilding
	}
	if !building.HasFloor(floor) {
		return ErrUnknownFloor
	}

	date := d.s.state.Selected
	env, err := d.s.client.ChangeDeliveryPlace(ctx, ledger.DeliveryPlaceRequest{
		Building: d.building,
		Floor:    floor,
		Date:     date,
		Meal:     meal,
		Acting:   d.s.acting.Identity(),
	})
	if err != nil {
		return err
	}
	if env != nil {
		d.s.messages.publish(env.Messages...)
	}

	place := models.DeliveryPlace{BuildingCode: d.building, FloorCode: floor}
	d.phase = deliverySet
	d.latest = place
	if order := d.s.state.order(date); order != nil {
		order.Delivery[meal] = place
	}

	if intent := d.intent; intent != nil {
		d.intent = nil
		if err := d.s.addItem(ctx, intent.Date, intent.ItemID); err != nil {
			d.s.logger.Warn("deferred add after delivery choice failed",
				zap.Int("item", intent.ItemID),
				zap.String("date", intent.Date.String()),
				zap.Error(err))
		}
	}
	return nil
}

// confirm records a place the ledger reported back outside the cascade, e.g.
// from a calendar re-sync.
func (d *DeliveryPlaceSelector) confirm(place models.DeliveryPlace) {
	if place.IsSet() {
		d.latest = place
	}
}

// reset drops cascade progress and any pending intent, keeping the confirmed
// latest place. Used on date change.
func (d *DeliveryPlaceSelector) reset() {
	d.phase = deliveryUnset
	d.building = ""
	d.intent = nil
}
