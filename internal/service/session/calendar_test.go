package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daway0/pors/internal/domain/models"
	"github.com/daway0/pors/pkg/clients/ledger"
)

func TestFetchMonthReplacesWholesale(t *testing.T) {
	fake := newFakeLedger()
	s := openSession(t, fake)
	require.NoError(t, s.AddItem(context.Background(), 1))

	// The backend state moved on (another device ordered more).
	fake.calendar.Orders[0].OrderItems[0].Quantity = 3
	require.NoError(t, s.FetchMonth(context.Background(), 1404, 5))

	snap := s.Snapshot()
	assert.Equal(t, 3, snap.Order.Quantity(1))
}

func TestMissingMonthIsEmptyNotError(t *testing.T) {
	fake := newFakeLedger()
	s := openSession(t, fake)

	require.NoError(t, s.FetchMonth(context.Background(), 1404, 6))

	// Nothing in the empty month is selectable, and the loaded month keeps
	// its data.
	err := s.SelectDay(context.Background(), models.Date{Year: 1404, Month: 6, Day: 5})
	assert.ErrorIs(t, err, ErrUnknownDate)
	assert.Len(t, s.Snapshot().Menu, 3)
}

func TestFailedFetchKeepsPriorState(t *testing.T) {
	fake := newFakeLedger()
	s := openSession(t, fake)
	require.NoError(t, s.AddItem(context.Background(), 1))

	fake.calendarErr = &ledger.ServerError{StatusCode: 500}
	require.Error(t, s.FetchMonth(context.Background(), 1404, 5))

	snap := s.Snapshot()
	assert.Equal(t, 1, snap.Order.Quantity(1))
	assert.Len(t, snap.Menu, 3)
}

func TestSelectDayOutsideFetchedMonths(t *testing.T) {
	s := openSession(t, newFakeLedger())

	err := s.SelectDay(context.Background(), models.Date{Year: 1404, Month: 7, Day: 1})
	assert.ErrorIs(t, err, ErrUnknownDate)
}

func TestSelectDayRecomputesBill(t *testing.T) {
	fake := newFakeLedger()
	s := openSession(t, fake)
	require.NoError(t, s.AddItem(context.Background(), 1))
	require.Equal(t, 100, s.Snapshot().Bill.Total)

	require.NoError(t, s.SelectDay(context.Background(), models.Date{Year: 1404, Month: 5, Day: 11}))
	assert.Equal(t, 0, s.Snapshot().Bill.Total)

	require.NoError(t, s.SelectDay(context.Background(), testDate()))
	assert.Equal(t, models.Bill{Total: 100, Subsidy: 60, Debt: 40}, s.Snapshot().Bill)
}

func TestHolidaysAndMenuDaysMarked(t *testing.T) {
	fake := newFakeLedger()
	fake.calendar.Holidays = []int{12}
	s := openSession(t, fake)

	snap := s.Snapshot()
	holiday, ok := snap.Month.Day(12)
	require.True(t, ok)
	assert.True(t, holiday.IsHoliday)
	assert.False(t, holiday.HasMenu)

	menuDay, ok := snap.Month.Day(10)
	require.True(t, ok)
	assert.True(t, menuDay.HasMenu)
}

func TestResyncConvergesStockCounters(t *testing.T) {
	fake := newFakeLedger()
	s := openSession(t, fake)

	// Another user took a unit between our syncs.
	*fake.calendar.MenuItems[0].Items[0].Remaining = 1
	require.NoError(t, s.Resync(context.Background()))

	for _, view := range s.Snapshot().Menu {
		if view.ID == 1 {
			require.NotNil(t, view.Remaining)
			assert.Equal(t, 1, *view.Remaining)
		}
	}
}
