package modlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrackerConsumeOnce(t *testing.T) {
	tr := newTracker()

	tr.add(ActionBan, 42)
	assert.True(t, tr.consume(ActionBan, 42))
	assert.False(t, tr.consume(ActionBan, 42), "an entry is consumed exactly once")
}

func TestTrackerKindsDoNotCollide(t *testing.T) {
	tr := newTracker()

	tr.add(ActionBan, 42)
	tr.add(ActionKick, 42)

	assert.True(t, tr.consume(ActionKick, 42))
	assert.True(t, tr.consume(ActionBan, 42))
	assert.False(t, tr.consume(ActionBan, 42))
}

func TestTrackerCountsPerKind(t *testing.T) {
	tr := newTracker()

	// two pending suppressions for the same ID and kind consume one echo each
	tr.add(ActionUnban, 7)
	tr.add(ActionUnban, 7)

	assert.True(t, tr.consume(ActionUnban, 7))
	assert.True(t, tr.consume(ActionUnban, 7))
	assert.False(t, tr.consume(ActionUnban, 7))
}
