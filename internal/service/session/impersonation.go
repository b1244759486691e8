package session

import "github.com/daway0/pors/pkg/clients/ledger"

// ImpersonationContext holds the acting-on-behalf-of identity of an admin
// session. Set once per acting session, cleared on exit. It is merged into
// every order, delivery and note mutation while active and never into
// feedback calls.
type ImpersonationContext struct {
	target        string
	reasonCode    string
	reasonComment string
	active        bool
}

// Enter activates god mode for a target user. All three fields are required:
// an admin action without a recorded justification is rejected locally.
func (c *ImpersonationContext) Enter(target, reasonCode, reasonComment string) error {
	if target == "" || reasonCode == "" || reasonComment == "" {
		return ErrImpersonationFields
	}
	c.target = target
	c.reasonCode = reasonCode
	c.reasonComment = reasonComment
	c.active = true
	return nil
}

// Exit clears the acting context.
func (c *ImpersonationContext) Exit() {
	*c = ImpersonationContext{}
}

// Active reports whether an acting session is in progress.
func (c *ImpersonationContext) Active() bool {
	return c.active
}

// Target returns the impersonated username, empty when inactive.
func (c *ImpersonationContext) Target() string {
	if !c.active {
		return ""
	}
	return c.target
}

// Identity returns the ledger identity to attach to mutations, nil when no
// acting session is in progress.
func (c *ImpersonationContext) Identity() *ledger.Identity {
	if !c.active {
		return nil
	}
	return &ledger.Identity{
		Username: c.target,
		Reason:   c.reasonCode,
		Comment:  c.reasonComment,
	}
}
