package session

import "github.com/daway0/pors/internal/domain/models"

// Summarize derives the financial summary of a set of order lines. Pure; the
// session recomputes it after every mutation and every date change.
func Summarize(lines []models.OrderLine, subsidy int) models.Bill {
	total := 0
	for _, line := range lines {
		total += line.Quantity * line.PricePerItem
	}

	debt := total - subsidy
	if debt < 0 {
		debt = 0
	}

	return models.Bill{Total: total, Subsidy: subsidy, Debt: debt}
}

// refreshBill recomputes the cached bill for the selected date.
func (s *Session) refreshBill() {
	subsidy := s.state.Subsidies[s.state.Selected.String()]
	var lines []models.OrderLine
	if order := s.state.order(s.state.Selected); order != nil {
		lines = order.Lines
	}
	s.state.Bill = Summarize(lines, subsidy)
}
