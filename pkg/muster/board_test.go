package muster_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/muster/pkg/muster"
)

func TestBoard_AddPublishes(t *testing.T) {
	alice := muster.NewUser("alice", nil)
	evt, _ := newTestEvent(t, alice, 5, nil)
	board := muster.NewBoard()

	require.NoError(t, board.Add(evt))

	assert.Equal(t, 1, board.Len())
	assert.Equal(t, muster.StateOpen, evt.State())
}

func TestBoard_AddFailedPublishLeavesBoardUnchanged(t *testing.T) {
	alice := muster.NewUser("alice", nil)
	evt, _ := newTestEvent(t, alice, 5, nil)
	require.NoError(t, evt.Publish())

	board := muster.NewBoard()
	err := board.Add(evt) // already published
	assert.ErrorIs(t, err, muster.ErrInvalidTransition)
	assert.Equal(t, 0, board.Len())
}

func TestBoard_AddNil(t *testing.T) {
	board := muster.NewBoard()
	assert.ErrorIs(t, board.Add(nil), muster.ErrNilEvent)
}

func TestBoard_RemoveWithdraws(t *testing.T) {
	alice := muster.NewUser("alice", nil)
	evt, _ := newTestEvent(t, alice, 5, nil)
	board := muster.NewBoard()
	require.NoError(t, board.Add(evt))

	require.NoError(t, board.Remove(evt, alice))

	assert.Equal(t, 0, board.Len())
	assert.Equal(t, muster.StateWithdrawn, evt.State())
}

func TestBoard_RemoveByNonCreatorKeepsListing(t *testing.T) {
	alice := muster.NewUser("alice", nil)
	bob := muster.NewUser("bob", nil)
	evt, _ := newTestEvent(t, alice, 5, nil)
	board := muster.NewBoard()
	require.NoError(t, board.Add(evt))

	err := board.Remove(evt, bob)
	assert.ErrorIs(t, err, muster.ErrNotCreator)
	assert.Equal(t, 1, board.Len())
}

func TestBoard_RemoveAfterStartKeepsListing(t *testing.T) {
	alice := muster.NewUser("alice", nil)
	evt, clock := newTestEvent(t, alice, 1, nil)
	board := muster.NewBoard()
	require.NoError(t, board.Add(evt))

	clock.Advance(73 * time.Hour)
	require.Equal(t, muster.StateOngoing, evt.State())

	err := board.Remove(evt, alice)
	assert.ErrorIs(t, err, muster.ErrInvalidTransition)
	assert.Equal(t, 1, board.Len())
}

func TestBoard_ByState(t *testing.T) {
	alice := muster.NewUser("alice", nil)
	open, _ := newTestEvent(t, alice, 5, nil)
	closed, _ := newTestEvent(t, alice, 1, nil)

	board := muster.NewBoard()
	require.NoError(t, board.Add(open))
	require.NoError(t, board.Add(closed))

	assert.Equal(t, []*muster.Lifecycle{open}, board.ByState(muster.StateOpen))
	assert.Equal(t, []*muster.Lifecycle{closed}, board.ByState(muster.StateClosed))
	assert.Empty(t, board.ByState(muster.StateFailed))
}

func TestBoard_ByCreator(t *testing.T) {
	alice := muster.NewUser("alice", nil)
	bob := muster.NewUser("bob", nil)
	byAlice, _ := newTestEvent(t, alice, 5, nil)
	byBob, _ := newTestEvent(t, bob, 5, nil)

	board := muster.NewBoard()
	require.NoError(t, board.Add(byAlice))
	require.NoError(t, board.Add(byBob))

	assert.Equal(t, []*muster.Lifecycle{byAlice}, board.ByCreator(alice))
	assert.Equal(t, []*muster.Lifecycle{byBob}, board.ByCreator(bob))
}

func TestBoard_SubscribedBy(t *testing.T) {
	alice := muster.NewUser("alice", nil)
	bob := muster.NewUser("bob", nil)
	byAlice, _ := newTestEvent(t, alice, 5, nil)
	byBob, _ := newTestEvent(t, bob, 5, nil)

	board := muster.NewBoard()
	require.NoError(t, board.Add(byAlice))
	require.NoError(t, board.Add(byBob))
	require.NoError(t, byAlice.Subscribe(bob))

	// Own events don't count, only joined ones.
	assert.Equal(t, []*muster.Lifecycle{byAlice}, board.SubscribedBy(bob))
	assert.Empty(t, board.SubscribedBy(alice))
}

func TestBoard_PastParticipants(t *testing.T) {
	alice := muster.NewUser("alice", nil)
	bob := muster.NewUser("bob", nil)
	carol := muster.NewUser("carol", nil)
	dave := muster.NewUser("dave", nil)

	// First outing: bob and carol joined, it ended.
	first, clock1 := newTestEvent(t, alice, 3, nil)
	board := muster.NewBoard()
	require.NoError(t, board.Add(first))
	require.NoError(t, first.Subscribe(bob))
	require.NoError(t, first.Subscribe(carol))
	clock1.AdvanceTo(testStart.Add(80 * time.Hour))
	require.Equal(t, muster.StateEnded, first.State())

	// Second outing: carol again plus dave, it ended too.
	second, clock2 := newTestEvent(t, alice, 3, nil)
	require.NoError(t, board.Add(second))
	require.NoError(t, second.Subscribe(carol))
	require.NoError(t, second.Subscribe(dave))
	clock2.AdvanceTo(testStart.Add(80 * time.Hour))
	require.Equal(t, muster.StateEnded, second.State())

	// Third outing never ended; its subscribers don't count.
	third, _ := newTestEvent(t, alice, 5, nil)
	require.NoError(t, board.Add(third))
	require.NoError(t, third.Subscribe(muster.NewUser("eve", nil)))

	got := board.PastParticipants(alice)
	assert.Equal(t, []*muster.User{bob, carol, dave}, got)
}

func TestBoard_AllIsACopy(t *testing.T) {
	alice := muster.NewUser("alice", nil)
	evt, _ := newTestEvent(t, alice, 5, nil)
	board := muster.NewBoard()
	require.NoError(t, board.Add(evt))

	all := board.All()
	all[0] = nil

	assert.Equal(t, []*muster.Lifecycle{evt}, board.All())
}
