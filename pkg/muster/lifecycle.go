package muster

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/randalmurphal/muster/pkg/muster/notify"
	"github.com/randalmurphal/muster/pkg/muster/observability"
	"github.com/randalmurphal/muster/pkg/muster/roster"
	"github.com/randalmurphal/muster/pkg/muster/schedule"
	"github.com/randalmurphal/muster/pkg/muster/schema"
)

// Lifecycle is the context object for one event: the authoritative state,
// the subscriber roster, the outstanding deadline timer, and the history of
// applied transitions.
//
// All mutating operations and every timer callback serialize behind a
// per-event mutex, so for a single event the observed state sequence is
// exactly the sequence of successfully applied transitions in lock order.
// Events are independent of each other; there is no global lock.
type Lifecycle struct {
	id       string
	category string
	creator  *User
	fields   FieldValues

	scheduler schedule.Scheduler
	fanout    *notify.Fanout
	logger    *slog.Logger
	metrics   observability.MetricsRecorder
	spans     observability.SpanManager

	mu          sync.Mutex
	state       State
	subscribers *roster.Roster[*User]
	history     []string

	// timer is the single outstanding deadline handle. timerEpoch
	// invalidates callbacks from timers that were cancelled while
	// already in flight.
	timer      schedule.Handle
	timerEpoch uint64
}

// New creates a proposed event in the valid state.
// The field values must already be validated (see NewEvent).
//
// Panics if category is empty or creator is nil; those are programming
// errors in the caller, not runtime conditions.
func New(category string, creator *User, fields FieldValues, opts ...Option) *Lifecycle {
	if category == "" {
		panic("muster: category cannot be empty")
	}
	if creator == nil {
		panic("muster: creator cannot be nil")
	}

	l := &Lifecycle{
		id:          fmt.Sprintf("evt-%s", uuid.New().String()[:8]),
		category:    category,
		creator:     creator,
		fields:      fields,
		state:       StateValid,
		subscribers: roster.New[*User](),
		metrics:     observability.NoopMetrics{},
		spans:       observability.NoopSpanManager{},
	}

	for _, opt := range opts {
		opt(l)
	}

	if l.scheduler == nil {
		l.scheduler = schedule.NewWall()
	}
	if l.fanout == nil {
		l.fanout = notify.NewFanout(notify.WithLogger(l.logger))
	}
	if l.logger != nil {
		l.logger = observability.EnrichLogger(l.logger, l.id, l.category)
	}

	return l
}

// NewEvent validates values against the named category of the catalog and
// creates a proposed event from them.
func NewEvent(catalog *schema.Catalog, category string, creator *User, values map[string]any, opts ...Option) (*Lifecycle, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	if creator == nil {
		return nil, ErrNilUser
	}
	if err := catalog.Validate(category, values); err != nil {
		return nil, fmt.Errorf("invalid event fields: %w", err)
	}
	return New(category, creator, NewFieldValues(values), opts...), nil
}

// ID returns the event's unique identifier.
func (l *Lifecycle) ID() string {
	return l.id
}

// Category returns the immutable category name.
func (l *Lifecycle) Category() string {
	return l.category
}

// Creator returns the proposing user.
func (l *Lifecycle) Creator() *User {
	return l.creator
}

// Fields returns the read-only field values.
func (l *Lifecycle) Fields() FieldValues {
	return l.fields
}

// State returns the current lifecycle state.
func (l *Lifecycle) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Subscribers returns the subscribers in insertion order.
func (l *Lifecycle) Subscribers() []*User {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.subscribers.Members()
}

// History returns the transition messages, most recent first.
func (l *Lifecycle) History() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.history...)
}

// Publish moves a valid proposal to open: the creator is subscribed, the
// event becomes visible, and the registration-deadline timer is armed.
// A registration deadline already in the past fails the event immediately.
func (l *Lifecycle) Publish() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StateValid {
		return l.rejectLocked("publish", ErrInvalidTransition)
	}

	// The creator is always the first subscriber.
	if err := l.subscribers.Add(l.creator); err == nil {
		l.fanout.Deliver(l.creator, notify.NewMessage(l.id, fmt.Sprintf("you are subscribed to %q", l.fields.Title())))
		l.metrics.RecordSubscriberCount(context.Background(), l.subscribers.Len())
	}

	if err := l.applyLocked(TriggerPublish, fmt.Sprintf("%q published; registration open", l.fields.Title())); err != nil {
		return err
	}

	// With capacity 1 and no tolerance the creator alone fills the event.
	return l.closeIfFullLocked()
}

// Subscribe admits a user while the event is open. Reaching the admission
// ceiling (capacity plus tolerance) closes registration immediately.
func (l *Lifecycle) Subscribe(u *User) error {
	if u == nil {
		return ErrNilUser
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StateOpen {
		return l.rejectLocked("subscribe", ErrInvalidTransition)
	}
	if err := l.subscribers.Add(u); err != nil {
		return l.rejectLocked("subscribe", ErrDuplicateSubscription)
	}

	observability.LogSubscription(l.logger, l.id, u.Name(), l.subscribers.Len())
	l.metrics.RecordSubscriberCount(context.Background(), l.subscribers.Len())
	l.fanout.Deliver(u, notify.NewMessage(l.id, fmt.Sprintf("you are subscribed to %q", l.fields.Title())))

	return l.closeIfFullLocked()
}

// Unsubscribe removes a user while registration is still reversible: the
// event is open and the unsubscription deadline has not passed. The
// creator cannot unsubscribe; withdrawal is their only way out.
func (l *Lifecycle) Unsubscribe(u *User) error {
	if u == nil {
		return ErrNilUser
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StateOpen {
		return l.rejectLocked("unsubscribe", ErrInvalidTransition)
	}
	if u == l.creator {
		return l.rejectLocked("unsubscribe", ErrCreatorSubscription)
	}
	if deadline := l.fields.UnsubscribeDeadline(); !deadline.IsZero() && l.scheduler.Now().After(deadline) {
		return l.rejectLocked("unsubscribe", ErrUnsubscribeDeadline)
	}
	if err := l.subscribers.Remove(u); err != nil {
		return l.rejectLocked("unsubscribe", ErrNotSubscribed)
	}

	observability.LogUnsubscription(l.logger, l.id, u.Name(), l.subscribers.Len())
	l.metrics.RecordSubscriberCount(context.Background(), l.subscribers.Len())
	l.fanout.Deliver(u, notify.NewMessage(l.id, fmt.Sprintf("you are no longer subscribed to %q", l.fields.Title())))

	return nil
}

// Withdraw cancels the event before it has started. Only the creator may
// withdraw. Subscribers are notified; the creator receives a separate
// confirmation.
func (l *Lifecycle) Withdraw(caller *User) error {
	if caller == nil {
		return ErrNilUser
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if caller != l.creator {
		return l.rejectLocked("withdraw", ErrNotCreator)
	}
	if _, ok := nextState(l.state, TriggerWithdraw); !ok {
		return l.rejectLocked("withdraw", ErrInvalidTransition)
	}

	return l.applyLocked(TriggerWithdraw, fmt.Sprintf("%q withdrawn by the creator", l.fields.Title()))
}

// CanPublish reports whether Publish would succeed.
func (l *Lifecycle) CanPublish() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state == StateValid
}

// CanSubscribe reports whether Subscribe(u) would succeed.
func (l *Lifecycle) CanSubscribe(u *User) bool {
	if u == nil {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state == StateOpen && !l.subscribers.Contains(u)
}

// CanUnsubscribe reports whether Unsubscribe(u) would succeed.
func (l *Lifecycle) CanUnsubscribe(u *User) bool {
	if u == nil {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != StateOpen || u == l.creator || !l.subscribers.Contains(u) {
		return false
	}
	deadline := l.fields.UnsubscribeDeadline()
	return deadline.IsZero() || !l.scheduler.Now().After(deadline)
}

// CanWithdraw reports whether Withdraw(caller) would succeed.
func (l *Lifecycle) CanWithdraw(caller *User) bool {
	if caller == nil || caller != l.creator {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := nextState(l.state, TriggerWithdraw)
	return ok
}

// rejectLocked records a guard rejection and builds the caller's error.
// Caller holds l.mu.
func (l *Lifecycle) rejectLocked(op string, cause error) error {
	err := &TransitionError{EventID: l.id, State: l.state, Op: op, Err: cause}
	observability.LogTransitionDenied(l.logger, l.id, l.state.String(), op, cause)
	l.metrics.RecordGuardRejection(context.Background(), l.state.String(), op)
	return err
}

// closeIfFullLocked applies the capacity transition once the roster
// reaches capacity plus tolerance. The ceiling check lives here, not in
// the roster, which stays a pure data structure. Caller holds l.mu.
func (l *Lifecycle) closeIfFullLocked() error {
	if l.state != StateOpen {
		return nil
	}
	ceiling := l.fields.Capacity() + l.fields.Tolerance()
	if ceiling <= 0 || l.subscribers.Len() < ceiling {
		return nil
	}
	return l.applyLocked(TriggerCapacity, fmt.Sprintf("%q full; registration closed", l.fields.Title()))
}

// applyLocked is the single place a transition happens: it cancels the
// predecessor's outstanding timer, swaps the state, appends to history,
// fans out notifications, and lets the new state arm its own timer.
// Caller holds l.mu; the whole sequence is atomic per event.
func (l *Lifecycle) applyLocked(trigger Trigger, message string) error {
	to, ok := nextState(l.state, trigger)
	if !ok {
		return l.rejectLocked(trigger.String(), ErrInvalidTransition)
	}

	from := l.state
	elapsed := observability.TimedOperation()
	ctx, span := l.spans.StartTransitionSpan(context.Background(), l.id, from.String(), trigger.String())

	l.cancelTimerLocked()
	l.state = to
	l.history = append([]string{message}, l.history...)

	if trigger == TriggerWithdraw {
		l.broadcastLocked(ctx, message, true)
		l.fanout.Deliver(l.creator, notify.NewMessage(l.id, fmt.Sprintf("you withdrew %q", l.fields.Title())))
	} else {
		l.broadcastLocked(ctx, message, false)
	}

	observability.LogTransition(l.logger, l.id, from.String(), to.String(), trigger.String(), elapsed())
	l.metrics.RecordTransition(ctx, from.String(), to.String(), trigger.String())

	err := l.enterLocked(ctx)
	l.spans.EndSpanWithError(span, err)
	return err
}

// broadcastLocked delivers a state-change message to every subscriber in
// insertion order. Caller holds l.mu.
func (l *Lifecycle) broadcastLocked(ctx context.Context, body string, excludeCreator bool) {
	msg := notify.NewMessage(l.id, body)
	for _, u := range l.subscribers.Members() {
		if excludeCreator && u == l.creator {
			continue
		}
		l.fanout.Deliver(u, msg)
		l.metrics.RecordNotification(ctx, false)
	}
}

// enterLocked performs the new state's entry action: arming the deadline
// timer that will drive the next time-triggered transition. Deadlines
// already in the past are caught up synchronously, cascading through
// however many transitions are due. Caller holds l.mu.
func (l *Lifecycle) enterLocked(ctx context.Context) error {
	switch l.state {
	case StateOpen:
		return l.armLocked(ctx, l.fields.RegistrationDeadline(), TriggerDeadline)
	case StateClosed:
		return l.armLocked(ctx, l.fields.Start(), TriggerStart)
	case StateOngoing:
		return l.armLocked(ctx, l.fields.End(), TriggerEnd)
	}
	return nil
}

// armLocked schedules trigger to fire at the given instant. Caller holds
// l.mu.
func (l *Lifecycle) armLocked(ctx context.Context, at time.Time, trigger Trigger) error {
	if !at.After(l.scheduler.Now()) {
		// Deadline elapsed while we were down or mid-transition:
		// apply the due transition now rather than arming a timer
		// that would fire behind the caller's back.
		return l.applyLocked(trigger, timerMessage(trigger, l.fields.Title()))
	}

	l.timerEpoch++
	epoch := l.timerEpoch
	state := l.state

	handle, err := l.scheduler.Schedule(at, func() {
		l.onTimer(epoch, trigger, at)
	})
	if err != nil {
		// An event with no armed timer would never expire. Treat the
		// deadline as due and drive the event onward to its natural
		// terminal state.
		observability.LogSchedulingFailure(l.logger, l.id, state.String(), at, err)
		return l.applyLocked(trigger, timerMessage(trigger, l.fields.Title()))
	}

	l.timer = handle
	observability.LogTimerArmed(l.logger, l.id, state.String(), at)
	return nil
}

// cancelTimerLocked disarms the outstanding timer and invalidates any
// callback already in flight. Caller holds l.mu.
func (l *Lifecycle) cancelTimerLocked() {
	if l.timer != nil {
		l.timer.Cancel()
		l.timer = nil
	}
	l.timerEpoch++
}

// onTimer is the scheduler callback. A timer cancelled while in flight
// may still fire once; the epoch check discards it before it can touch
// state.
func (l *Lifecycle) onTimer(epoch uint64, trigger Trigger, deadline time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if epoch != l.timerEpoch {
		observability.LogTimerStale(l.logger, l.id)
		return
	}
	l.timer = nil

	observability.LogTimerFired(l.logger, l.id, l.state.String())
	l.metrics.RecordTimerLag(context.Background(), l.scheduler.Now().Sub(deadline))

	// The epoch matched, so the arming state is still active and the
	// transition must be in the table.
	_ = l.applyLocked(trigger, timerMessage(trigger, l.fields.Title()))
}

// timerMessage builds the history/notification text for a time-triggered
// transition.
func timerMessage(trigger Trigger, title string) string {
	switch trigger {
	case TriggerDeadline:
		return fmt.Sprintf("%q failed: registration deadline passed under capacity", title)
	case TriggerStart:
		return fmt.Sprintf("%q started", title)
	case TriggerEnd:
		return fmt.Sprintf("%q ended", title)
	}
	return fmt.Sprintf("%q changed state", title)
}
