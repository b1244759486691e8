package session

import "github.com/daway0/pors/internal/domain/models"

// State is the whole in-memory order session model, owned by exactly one
// Session and mutated only through its components. Maps keyed by the wire
// date string ("YYYY/MM/DD").
type State struct {
	Open         bool
	GodMode      bool
	Today        models.Date
	Selected     models.Date
	BreakfastCap int

	Months    map[models.MonthKey]models.MonthCalendar
	Menus     map[string]*models.DayMenuEntry
	Orders    map[string]*models.Order
	Catalog   map[int]models.MenuItem
	Feedback  map[int]*models.ItemFeedback
	Subsidies map[string]int
	Buildings []models.Building

	Bill models.Bill
}

func newState() *State {
	return &State{
		Months:    make(map[models.MonthKey]models.MonthCalendar),
		Menus:     make(map[string]*models.DayMenuEntry),
		Orders:    make(map[string]*models.Order),
		Catalog:   make(map[int]models.MenuItem),
		Feedback:  make(map[int]*models.ItemFeedback),
		Subsidies: make(map[string]int),
	}
}

// order returns the existing order for a date, nil when absent.
func (s *State) order(date models.Date) *models.Order {
	return s.Orders[date.String()]
}

// ensureOrder returns the order for a date, creating the local mirror when
// the ledger has just created one implicitly via a first successful add.
func (s *State) ensureOrder(date models.Date) *models.Order {
	key := date.String()
	if o, ok := s.Orders[key]; ok {
		return o
	}
	o := &models.Order{
		Date:     date,
		Delivery: make(map[models.MealType]models.DeliveryPlace),
	}
	s.Orders[key] = o
	return o
}

// menu returns the day menu entry for a date, nil when absent.
func (s *State) menu(date models.Date) *models.DayMenuEntry {
	return s.Menus[date.String()]
}

// building looks up a building by code in the delivery catalog.
func (s *State) building(code string) (models.Building, bool) {
	for _, b := range s.Buildings {
		if b.Code == code {
			return b, true
		}
	}
	return models.Building{}, false
}
