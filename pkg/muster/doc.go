/*
Package muster implements an event lifecycle engine for time-bound group
activities.

# Overview

An event is proposed, published to a board, gathers subscribers up to a
capacity (plus an over-admission tolerance), and retires automatically when
its deadlines pass or its capacity is reached. muster provides the finite
state machine that governs this lifecycle, the deadline scheduler that
drives time-triggered transitions, the admission logic for
capacity-triggered ones, and the notification fan-out that keeps
subscribers' mailboxes up to date.

The seven states:

	valid     proposed, not yet visible to others
	open      published, accepting subscriptions
	closed    capacity reached, waiting for the start time
	ongoing   started, running
	ended     finished (terminal)
	failed    registration deadline passed under capacity (terminal)
	withdrawn cancelled by the creator (terminal)

# Basic Usage

Build a catalog, create an event, publish it on a board:

	catalog, _ := schema.NewCatalog(mustCategory("dinner"))
	alice := muster.NewUser("alice", notify.NewInbox())

	evt, err := muster.NewEvent(catalog, "dinner", alice, map[string]any{
	    "title":                 "team dinner",
	    "capacity":              4,
	    "registration_deadline": time.Now().Add(24 * time.Hour),
	    "start":                 time.Now().Add(48 * time.Hour),
	    "end":                   time.Now().Add(52 * time.Hour),
	})
	if err != nil {
	    log.Fatal(err)
	}

	board := muster.NewBoard()
	if err := board.Add(evt); err != nil { // publishes, arms the deadline timer
	    log.Fatal(err)
	}

	bob := muster.NewUser("bob", notify.NewInbox())
	if err := evt.Subscribe(bob); err != nil {
	    log.Println("cannot join:", err)
	}

# Concurrency

Each lifecycle serializes its transitions behind a per-event mutex: timer
callbacks and user-triggered calls racing on the same event resolve in lock
order, and the loser observes the new state. Events are independent; there
is no global lock. The one cross-event shared resource is the per-user
mailbox, which synchronizes its own appends.

# Recovery

Snapshot/Rehydrate round-trip an event through the store package. Rehydrate
re-arms timers from the persisted deadlines and synchronously catches up
any transitions whose deadlines elapsed while the process was down, before
the event is exposed again.
*/
package muster
