package muster_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/muster/pkg/muster"
)

func TestState_String(t *testing.T) {
	cases := map[muster.State]string{
		muster.StateValid:     "valid",
		muster.StateOpen:      "open",
		muster.StateClosed:    "closed",
		muster.StateOngoing:   "ongoing",
		muster.StateEnded:     "ended",
		muster.StateFailed:    "failed",
		muster.StateWithdrawn: "withdrawn",
	}
	for state, want := range cases {
		assert.Equal(t, want, state.String())
	}
}

func TestState_Terminal(t *testing.T) {
	terminal := []muster.State{muster.StateEnded, muster.StateFailed, muster.StateWithdrawn}
	for _, s := range terminal {
		assert.True(t, s.Terminal(), "%s should be terminal", s)
	}

	live := []muster.State{muster.StateValid, muster.StateOpen, muster.StateClosed, muster.StateOngoing}
	for _, s := range live {
		assert.False(t, s.Terminal(), "%s should not be terminal", s)
	}
}

func TestParseState_RoundTrip(t *testing.T) {
	all := []muster.State{
		muster.StateValid,
		muster.StateOpen,
		muster.StateClosed,
		muster.StateOngoing,
		muster.StateEnded,
		muster.StateFailed,
		muster.StateWithdrawn,
	}
	for _, s := range all {
		parsed, err := muster.ParseState(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
}

func TestParseState_Unknown(t *testing.T) {
	_, err := muster.ParseState("limbo")
	assert.Error(t, err)
}

func TestTrigger_String(t *testing.T) {
	cases := map[muster.Trigger]string{
		muster.TriggerPublish:  "publish",
		muster.TriggerCapacity: "capacity",
		muster.TriggerDeadline: "deadline",
		muster.TriggerStart:    "start",
		muster.TriggerEnd:      "end",
		muster.TriggerWithdraw: "withdraw",
	}
	for trigger, want := range cases {
		assert.Equal(t, want, trigger.String())
	}
}
