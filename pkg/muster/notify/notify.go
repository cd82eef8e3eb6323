// Package notify delivers lifecycle messages to per-user mailboxes.
//
// Delivery is fire-and-forget from the lifecycle's perspective: a failing
// mailbox is logged and reported through an optional hook, but never fails
// or blocks the transition that produced the message.
//
// The mailbox is the one resource shared across events - many events deliver
// to the same user's inbox concurrently - so Inbox synchronizes its append
// internally.
package notify

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Message is a single mailbox entry produced by a lifecycle transition.
type Message struct {
	// ID uniquely identifies this message.
	ID string `json:"id"`

	// EventID is the lifecycle the message originated from.
	EventID string `json:"event_id"`

	// Body is the human-readable message text.
	Body string `json:"body"`

	// SentAt is when the message was produced.
	SentAt time.Time `json:"sent_at"`
}

// NewMessage creates a message with a generated ID and the current time.
func NewMessage(eventID, body string) Message {
	return Message{
		ID:      fmt.Sprintf("msg-%s", uuid.New().String()[:8]),
		EventID: eventID,
		Body:    body,
		SentAt:  time.Now(),
	}
}

// Mailbox accepts messages for a single user.
// Implementations must be safe for concurrent writers from multiple events.
type Mailbox interface {
	// Deliver appends a message to the mailbox.
	Deliver(msg Message) error
}

// Recipient is anyone with a name and a mailbox.
type Recipient interface {
	Name() string
	Inbox() Mailbox
}

// Inbox is an in-memory Mailbox. The zero value is ready to use.
type Inbox struct {
	mu       sync.Mutex
	messages []Message
}

// NewInbox creates an empty inbox.
func NewInbox() *Inbox {
	return &Inbox{}
}

// Deliver implements Mailbox.
func (in *Inbox) Deliver(msg Message) error {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.messages = append(in.messages, msg)
	return nil
}

// Messages returns a copy of the inbox contents in delivery order.
func (in *Inbox) Messages() []Message {
	in.mu.Lock()
	defer in.mu.Unlock()

	out := make([]Message, len(in.messages))
	copy(out, in.messages)
	return out
}

// Len returns the number of delivered messages.
func (in *Inbox) Len() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.messages)
}

// Fanout broadcasts messages to recipients.
type Fanout struct {
	logger *slog.Logger

	// OnError is called when a mailbox delivery fails.
	// Delivery continues with the remaining recipients.
	OnError func(recipient string, msg Message, err error)
}

// FanoutOption configures a Fanout.
type FanoutOption func(*Fanout)

// WithLogger sets the logger for delivery failures.
func WithLogger(logger *slog.Logger) FanoutOption {
	return func(f *Fanout) {
		f.logger = logger
	}
}

// WithErrorHook sets a callback invoked on each failed delivery.
func WithErrorHook(hook func(recipient string, msg Message, err error)) FanoutOption {
	return func(f *Fanout) {
		f.OnError = hook
	}
}

// NewFanout creates a fan-out with the given options.
func NewFanout(opts ...FanoutOption) *Fanout {
	f := &Fanout{}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Deliver sends msg to a single recipient, swallowing delivery errors.
func (f *Fanout) Deliver(to Recipient, msg Message) {
	if to == nil {
		return
	}
	box := to.Inbox()
	if box == nil {
		return
	}
	if err := box.Deliver(msg); err != nil {
		if f.logger != nil {
			f.logger.Warn("mailbox delivery failed",
				slog.String("recipient", to.Name()),
				slog.String("event_id", msg.EventID),
				slog.String("error", err.Error()),
			)
		}
		if f.OnError != nil {
			f.OnError(to.Name(), msg, err)
		}
	}
}

// DeliverAll sends msg to every recipient in order.
// Failed deliveries are skipped, not retried.
func (f *Fanout) DeliverAll(to []Recipient, msg Message) {
	for _, r := range to {
		f.Deliver(r, msg)
	}
}
