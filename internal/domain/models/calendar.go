package models

// CalendarDay is per-day metadata inside one fetched month.
type CalendarDay struct {
	Date      Date `json:"date"`
	IsHoliday bool `json:"isHoliday"`
	HasMenu   bool `json:"hasMenu"`
	HasOrder  bool `json:"hasOrder"`
}

// MonthCalendar is a wholesale snapshot of one (year, month) fetch. A re-fetch
// for the same month replaces the whole value, never patches it.
type MonthCalendar struct {
	Key            MonthKey      `json:"key"`
	FirstDayOfWeek int           `json:"firstDayOfWeek"`
	LastDayOfMonth int           `json:"lastDayOfMonth"`
	Days           []CalendarDay `json:"days"`
}

// Day looks up a day number inside the month.
func (m MonthCalendar) Day(day int) (CalendarDay, bool) {
	for _, d := range m.Days {
		if d.Date.Day == day {
			return d, true
		}
	}
	return CalendarDay{}, false
}
