package ledger

import (
	"errors"
	"fmt"

	"github.com/daway0/pors/internal/domain/models"
)

// ErrReauthRequired is returned for any 403 response. The surface layer
// answers it with a redirect to the auth gateway; it is never displayed as a
// normal message.
var ErrReauthRequired = errors.New("ledger requires re-authentication")

// ErrMonthNotFound is returned when the ledger has no calendar data for the
// requested month. Callers treat it as an empty but valid calendar.
var ErrMonthNotFound = errors.New("no calendar data for requested month")

// ServerError carries a non-2xx ledger response together with the structured
// messages the ledger wants shown to the user.
type ServerError struct {
	StatusCode int
	Messages   []models.ServerMessage
}

func (e *ServerError) Error() string {
	if len(e.Messages) > 0 {
		return fmt.Sprintf("ledger error: status=%d, message=%s", e.StatusCode, e.Messages[0].Message)
	}
	return fmt.Sprintf("ledger error: status=%d", e.StatusCode)
}
