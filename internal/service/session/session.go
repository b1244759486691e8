package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/daway0/pors/internal/domain/models"
	"github.com/daway0/pors/pkg/clients/ledger"
)

// Session is one user's reconciliation engine over the order ledger. It owns
// the local model and keeps it consistent with the ledger through
// confirm-then-mutate calls and whole-month re-syncs. A single mutex
// serializes every operation; component helpers assume it is held.
type Session struct {
	mu       sync.Mutex
	username string
	client   ledger.Client
	logger   *zap.Logger

	// bypassClosed lets configured accounts keep mutating while ordering
	// is closed for regular personnel.
	bypassClosed bool

	// guestAccount reports whether a username belongs to the configured
	// guest set. Delivery places of guests are never editable through an
	// acting admin session.
	guestAccount func(string) bool

	state    *State
	calendar *CalendarIndex
	menu     *DayMenuResolver
	mutator  *OrderMutator
	delivery *DeliveryPlaceSelector
	feedback *FeedbackStateMachine
	acting   *ImpersonationContext
	messages *messageBuffer

	opened bool
}

// New builds an unopened session for a user. Open must be called before any
// other operation.
func New(username string, client ledger.Client, logger *zap.Logger) *Session {
	s := &Session{
		username:     username,
		client:       client,
		logger:       logger.Named("session").With(zap.String("user", username)),
		state:        newState(),
		acting:       &ImpersonationContext{},
		messages:     &messageBuffer{},
		guestAccount: func(string) bool { return false },
	}
	s.calendar = &CalendarIndex{s: s}
	s.menu = &DayMenuResolver{s: s}
	s.mutator = &OrderMutator{s: s}
	s.delivery = &DeliveryPlaceSelector{s: s}
	s.feedback = &FeedbackStateMachine{s: s}
	return s
}

// SetBypassClosed marks the session as exempt from the closed-for-personnel
// gate. Called by the manager for configured accounts before Open.
func (s *Session) SetBypassClosed(bypass bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bypassClosed = bypass
}

// SetGuestLookup installs the guest-account predicate used to suppress
// delivery edits during impersonation.
func (s *Session) SetGuestLookup(lookup func(string) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if lookup != nil {
		s.guestAccount = lookup
	}
}

// Open bootstraps the session: panel flags, catalog, the current month and
// the subsidy of the first orderable date. Safe to call again to start over.
func (s *Session) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open(ctx)
}

func (s *Session) open(ctx context.Context) error {
	state := newState()

	panel, err := s.client.FetchPanel(ctx, s.acting.Identity())
	if err != nil {
		return err
	}
	s.messages.publish(panel.Messages...)

	state.Open = panel.IsOpen || s.bypassClosed
	state.GodMode = panel.GodMode
	state.BreakfastCap = panel.BreakfastItemCap
	state.Today = panel.FirstOrderableDate
	state.Selected = panel.FirstOrderableDate
	state.Buildings = toBuildings(panel.Buildings)

	items, err := s.client.FetchAllItems(ctx, s.acting.Identity())
	if err != nil {
		return err
	}
	s.messages.publish(items.Messages...)
	for _, dto := range items.Items {
		state.Catalog[dto.ID] = models.MenuItem{
			ID:           dto.ID,
			Name:         dto.ItemName,
			Description:  dto.ItemDesc,
			Image:        dto.Image,
			MealType:     models.MealType(dto.ServeTime),
			Provider:     dto.Provider,
			CurrentPrice: dto.CurrentPrice,
			IsActive:     dto.IsActive,
		}
		fbState := models.FeedbackState(dto.MyFeedback)
		if fbState == "" {
			fbState = models.FeedbackNone
		}
		state.Feedback[dto.ID] = &models.ItemFeedback{
			State:         fbState,
			TotalLikes:    dto.TotalLikes,
			TotalDislikes: dto.TotalDislikes,
		}
	}

	// Stage everything before touching the live model: a failed calendar
	// fetch must leave the prior model intact, not half-swapped.
	prevDelivery := *s.delivery
	s.delivery.reset()
	s.delivery.latest = models.DeliveryPlace{
		BuildingCode: panel.LatestBuilding,
		FloorCode:    panel.LatestFloor,
	}
	if err := s.calendar.fetchMonthInto(ctx, state, state.Selected.Year, state.Selected.Month); err != nil {
		*s.delivery = prevDelivery
		return err
	}

	s.state = state
	if err := s.loadSubsidy(ctx, state.Selected); err != nil {
		s.logger.Warn("subsidy fetch during open failed", zap.Error(err))
	}
	s.refreshBill()
	s.opened = true
	return nil
}

// Snapshot returns the current view of the selected date.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Messages drains the buffered server messages in arrival order.
func (s *Session) Messages() []models.ServerMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.messages.drain()
}

// FetchMonth loads a month into the calendar index, replacing any held data
// for it.
func (s *Session) FetchMonth(ctx context.Context, year, month int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.opened {
		return ErrSessionNotOpen
	}
	return s.calendar.fetchMonth(ctx, year, month)
}

// SelectDay moves the selection to a date inside an already fetched month,
// clearing cascade progress and recomputing the bill.
func (s *Session) SelectDay(ctx context.Context, date models.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.opened {
		return ErrSessionNotOpen
	}
	if _, err := s.calendar.day(date); err != nil {
		return err
	}

	s.state.Selected = date
	s.delivery.reset()
	if err := s.loadSubsidy(ctx, date); err != nil {
		s.logger.Warn("subsidy fetch on day change failed",
			zap.String("date", date.String()), zap.Error(err))
	}
	s.refreshBill()
	return nil
}

// AddItem adds one unit of an item to the selected date's order.
func (s *Session) AddItem(ctx context.Context, itemID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.opened {
		return ErrSessionNotOpen
	}
	return s.addItem(ctx, s.state.Selected, itemID)
}

// addItem is the lock-held add path, shared with the deferred-intent replay.
func (s *Session) addItem(ctx context.Context, date models.Date, itemID int) error {
	return s.mutator.addItem(ctx, date, itemID)
}

// RemoveItem removes one unit of an item from the selected date's order.
func (s *Session) RemoveItem(ctx context.Context, itemID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.opened {
		return ErrSessionNotOpen
	}
	return s.mutator.removeItem(ctx, s.state.Selected, itemID)
}

// SetNote updates the note of the selected date's order.
func (s *Session) SetNote(ctx context.Context, note string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.opened {
		return ErrSessionNotOpen
	}
	return s.mutator.setNote(ctx, s.state.Selected, note)
}

// SelectBuilding runs the first step of the delivery cascade. Local only.
func (s *Session) SelectBuilding(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.opened {
		return ErrSessionNotOpen
	}
	if !s.state.Open {
		return ErrSystemClosed
	}
	if !s.deliveryEditable() {
		return ErrDeliveryEditHidden
	}
	return s.delivery.selectBuilding(code)
}

// SelectFloor commits the delivery place for one meal of the selected date
// and replays a deferred add if one is parked.
func (s *Session) SelectFloor(ctx context.Context, meal models.MealType, floor string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.opened {
		return ErrSessionNotOpen
	}
	if !s.state.Open {
		return ErrSystemClosed
	}
	if !meal.Valid() {
		return ErrInvalidMealType
	}
	if !s.deliveryEditable() {
		return ErrDeliveryEditHidden
	}
	// The floor commit targets one meal: it needs ordered quantity on that
	// meal or an add waiting to create some.
	if s.delivery.intent == nil && s.menu.mealQuantity(s.state.Selected, meal) == 0 && s.delivery.placeKnown() {
		return ErrDeliveryEditHidden
	}
	return s.delivery.selectFloor(ctx, meal, floor)
}

// deliveryEditable reports whether the cascade applies to the selected date:
// either an order exists to re-route or an add is waiting on a place. Guests'
// delivery places are off limits to acting admins.
func (s *Session) deliveryEditable() bool {
	if s.acting.Active() && s.guestAccount(s.acting.Target()) {
		return false
	}
	if s.delivery.intent != nil {
		return true
	}
	entry := s.state.menu(s.state.Selected)
	if entry == nil {
		return false
	}
	return s.state.order(s.state.Selected) != nil || !s.delivery.placeKnown()
}

// Like toggles the like reaction on a catalog item.
func (s *Session) Like(ctx context.Context, itemID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.opened {
		return ErrSessionNotOpen
	}
	return s.feedback.like(ctx, itemID)
}

// Dislike toggles the dislike reaction on a catalog item.
func (s *Session) Dislike(ctx context.Context, itemID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.opened {
		return ErrSessionNotOpen
	}
	return s.feedback.dislike(ctx, itemID)
}

// Impersonate enters an acting-on-behalf-of session for a target user and
// reloads the whole model as that user. Failing to reload leaves the context
// cleared rather than half-switched.
func (s *Session) Impersonate(ctx context.Context, target, reasonCode, reasonComment string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.opened {
		return ErrSessionNotOpen
	}
	if !s.state.GodMode {
		return ErrNotAuthorized
	}
	if err := s.acting.Enter(target, reasonCode, reasonComment); err != nil {
		return err
	}
	if err := s.open(ctx); err != nil {
		s.acting.Exit()
		return err
	}
	return nil
}

// StopImpersonation drops the acting context and reloads the model as the
// real user.
func (s *Session) StopImpersonation(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.opened {
		return ErrSessionNotOpen
	}
	if !s.acting.Active() {
		return nil
	}
	s.acting.Exit()
	return s.open(ctx)
}

// Resync re-fetches the month of the selected date. Used by the scheduler to
// keep long-lived sessions converged.
func (s *Session) Resync(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.opened {
		return ErrSessionNotOpen
	}
	if err := s.calendar.fetchMonth(ctx, s.state.Selected.Year, s.state.Selected.Month); err != nil {
		return err
	}
	s.refreshBill()
	return nil
}

// Username returns the owning user.
func (s *Session) Username() string {
	return s.username
}

// loadSubsidy caches the subsidy of a date; amounts are stable within a
// session so a cached date is never re-fetched.
func (s *Session) loadSubsidy(ctx context.Context, date models.Date) error {
	key := date.String()
	if _, ok := s.state.Subsidies[key]; ok {
		return nil
	}
	resp, err := s.client.GetSubsidy(ctx, date, s.acting.Identity())
	if err != nil {
		return err
	}
	s.messages.publish(resp.Messages...)
	s.state.Subsidies[key] = resp.Data.Subsidy
	return nil
}

func toBuildings(dtos []ledger.BuildingDTO) []models.Building {
	buildings := make([]models.Building, 0, len(dtos))
	for _, dto := range dtos {
		b := models.Building{Code: dto.Code, Title: dto.Title}
		for _, f := range dto.Floors {
			b.Floors = append(b.Floors, models.Floor{Code: f.Code, Title: f.Title})
		}
		buildings = append(buildings, b)
	}
	return buildings
}
