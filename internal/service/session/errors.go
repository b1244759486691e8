package session

import (
	"errors"
	"fmt"
)

// Local precondition failures. These short-circuit before any network call
// and are never sent to the ledger.
var (
	ErrSystemClosed          = errors.New("ordering system is currently closed")
	ErrSessionNotOpen        = errors.New("session has not been opened")
	ErrUnknownDate           = errors.New("date is not part of a fetched month")
	ErrNoMenuForDate         = errors.New("no menu exists for this date")
	ErrUnknownItem           = errors.New("item is not in the catalog")
	ErrItemNotOnMenu         = errors.New("item is not on this day's menu")
	ErrEditWindowClosed      = errors.New("edit window for this meal type is closed")
	ErrOutOfStock            = errors.New("no remaining stock for this item")
	ErrNothingToRemove       = errors.New("no quantity of this item in the order")
	ErrNoOrderForDate        = errors.New("no order exists for this date")
	ErrInvalidMealType       = errors.New("unknown meal type")
	ErrDeliveryPlaceRequired = errors.New("a delivery place must be selected first")
	ErrNoBuildingChosen      = errors.New("a building must be chosen before a floor")
	ErrUnknownBuilding       = errors.New("unknown building code")
	ErrUnknownFloor          = errors.New("floor does not belong to the chosen building")
	ErrDeliveryEditHidden    = errors.New("delivery place is not editable right now")
	ErrFeedbackSuppressed    = errors.New("feedback is unavailable while impersonating")
	ErrImpersonationFields   = errors.New("impersonation requires target, reason and comment")
	ErrNotAuthorized         = errors.New("account is not allowed to impersonate")
)

// CapacityError reports that the breakfast cap would be exceeded. It carries
// the configured maximum for user messaging and is checked before the stock
// rule so the capacity message wins when both would apply.
type CapacityError struct {
	Max int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("at most %d breakfast item(s) can be ordered per day", e.Max)
}

// IsValidation reports whether the error is a local precondition failure, as
// opposed to a transport or ledger failure.
func IsValidation(err error) bool {
	var capErr *CapacityError
	if errors.As(err, &capErr) {
		return true
	}
	for _, target := range []error{
		ErrSystemClosed, ErrSessionNotOpen, ErrUnknownDate, ErrNoMenuForDate,
		ErrUnknownItem, ErrItemNotOnMenu, ErrEditWindowClosed, ErrOutOfStock,
		ErrNothingToRemove, ErrNoOrderForDate, ErrInvalidMealType, ErrDeliveryPlaceRequired,
		ErrNoBuildingChosen, ErrUnknownBuilding, ErrUnknownFloor,
		ErrDeliveryEditHidden, ErrFeedbackSuppressed, ErrImpersonationFields,
		ErrNotAuthorized,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
