package muster

import (
	"github.com/randalmurphal/muster/pkg/muster/notify"
)

// User is a participant identified by pointer identity: two users with the
// same name are still distinct subscribers. The mailbox is the sole channel
// through which the lifecycle informs a user of changes; it is shared
// across every event the user subscribes to.
type User struct {
	name  string
	inbox notify.Mailbox
}

// Compile-time interface check.
var _ notify.Recipient = (*User)(nil)

// NewUser creates a user with the given mailbox.
// A nil mailbox gets a fresh in-memory inbox.
func NewUser(name string, inbox notify.Mailbox) *User {
	if inbox == nil {
		inbox = notify.NewInbox()
	}
	return &User{name: name, inbox: inbox}
}

// Name returns the user's display name.
func (u *User) Name() string {
	return u.name
}

// Inbox implements notify.Recipient.
func (u *User) Inbox() notify.Mailbox {
	return u.inbox
}
