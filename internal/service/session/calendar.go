package session

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/daway0/pors/internal/domain/models"
	"github.com/daway0/pors/pkg/clients/ledger"
)

// CalendarIndex maps a (year, month) pair to per-day metadata. Every fetch
// replaces the held month wholesale; a failed fetch leaves the prior month
// state untouched.
type CalendarIndex struct {
	s *Session
}

// fetchMonth loads one month from the ledger. A month the ledger has no data
// for is an empty but valid calendar, not an error to the caller.
func (c *CalendarIndex) fetchMonth(ctx context.Context, year, month int) error {
	return c.fetchMonthInto(ctx, c.s.state, year, month)
}

// fetchMonthInto loads a month into an explicit state, so a bootstrap can
// stage everything and commit only after every fetch succeeded.
func (c *CalendarIndex) fetchMonthInto(ctx context.Context, state *State, year, month int) error {
	key := models.MonthKey{Year: year, Month: month}

	resp, err := c.s.client.FetchCalendar(ctx, year, month, c.s.acting.Identity())
	if errors.Is(err, ledger.ErrMonthNotFound) {
		state.Months[key] = models.MonthCalendar{Key: key}
		c.replaceMonthData(state, key, nil, nil)
		return nil
	}
	if err != nil {
		return err
	}

	c.s.messages.publish(resp.Messages...)
	c.apply(state, key, resp)
	return nil
}

func (c *CalendarIndex) apply(state *State, key models.MonthKey, resp *ledger.CalendarResponse) {
	holidays := toSet(resp.Holidays)
	withMenu := toSet(resp.DaysWithMenu)
	ordered := toSet(resp.OrderedDays)

	days := make([]models.CalendarDay, 0, resp.LastDayOfMonth)
	for day := 1; day <= resp.LastDayOfMonth; day++ {
		days = append(days, models.CalendarDay{
			Date:      models.Date{Year: key.Year, Month: key.Month, Day: day},
			IsHoliday: holidays[day],
			HasMenu:   withMenu[day],
			HasOrder:  ordered[day],
		})
	}

	state.Months[key] = models.MonthCalendar{
		Key:            key,
		FirstDayOfWeek: resp.FirstDayOfWeek,
		LastDayOfMonth: resp.LastDayOfMonth,
		Days:           days,
	}
	c.replaceMonthData(state, key, resp.MenuItems, resp.Orders)
}

// replaceMonthData swaps out every menu and order belonging to the month for
// the freshly fetched snapshot. Other months keep their entries.
func (c *CalendarIndex) replaceMonthData(state *State, key models.MonthKey, menus []ledger.DayMenuDTO, orders []ledger.OrderDTO) {
	for dateKey := range state.Menus {
		if date, err := models.ParseDate(dateKey); err == nil && date.Key() == key {
			delete(state.Menus, dateKey)
		}
	}
	for dateKey := range state.Orders {
		if date, err := models.ParseDate(dateKey); err == nil && date.Key() == key {
			delete(state.Orders, dateKey)
		}
	}

	for _, dto := range menus {
		date, err := models.ParseDate(dto.Date)
		if err != nil {
			c.s.logger.Warn("skipping menu entry with malformed date", zap.String("date", dto.Date))
			continue
		}
		entry := &models.DayMenuEntry{
			Date:             date,
			OpenForBreakfast: dto.OpenForBreakfast,
			OpenForLunch:     dto.OpenForLunch,
		}
		for _, slot := range dto.Items {
			entry.Items = append(entry.Items, models.MenuSlot{ItemID: slot.ItemID, Remaining: slot.Remaining})
		}
		state.Menus[date.String()] = entry
	}

	for _, dto := range orders {
		date, err := models.ParseDate(dto.OrderDate)
		if err != nil {
			c.s.logger.Warn("skipping order with malformed date", zap.String("date", dto.OrderDate))
			continue
		}
		order := &models.Order{
			Date:     date,
			Note:     dto.Note,
			Delivery: make(map[models.MealType]models.DeliveryPlace),
		}
		for _, line := range dto.OrderItems {
			if line.Quantity <= 0 {
				continue
			}
			order.Lines = append(order.Lines, models.OrderLine{
				ItemID:       line.ItemID,
				Quantity:     line.Quantity,
				PricePerItem: line.PricePerItem,
			})
		}
		for meal, place := range dto.Delivery {
			confirmed := models.DeliveryPlace{
				BuildingCode: place.Building,
				FloorCode:    place.Floor,
			}
			order.Delivery[models.MealType(meal)] = confirmed
			c.s.delivery.confirm(confirmed)
		}
		state.Orders[date.String()] = order
	}
}

// day returns the calendar metadata of a date, failing when its month has
// not been fetched.
func (c *CalendarIndex) day(date models.Date) (models.CalendarDay, error) {
	monthCal, ok := c.s.state.Months[date.Key()]
	if !ok {
		return models.CalendarDay{}, ErrUnknownDate
	}
	d, ok := monthCal.Day(date.Day)
	if !ok {
		return models.CalendarDay{}, ErrUnknownDate
	}
	return d, nil
}

func toSet(days []int) map[int]bool {
	set := make(map[int]bool, len(days))
	for _, d := range days {
		set[d] = true
	}
	return set
}
