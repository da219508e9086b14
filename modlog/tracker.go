package modlog

import (
	"sync"

	"github.com/diamondburned/arikawa/v3/discord"
)

// ActionKind tags a suppression entry with the bot action that caused it.
type ActionKind string

const (
	ActionKick            ActionKind = "kick"
	ActionBan             ActionKind = "ban"
	ActionUnban           ActionKind = "unban"
	ActionFilteredMessage ActionKind = "filtered_message"
	ActionSuppressedLeave ActionKind = "suppressed_leave"
)

type suppressionKey struct {
	id   discord.Snowflake
	kind ActionKind
}

// tracker marks user or message IDs as bot-caused so the matching gateway
// echo events are not logged a second time. Entries are counted per
// (id, kind), so two pending suppressions for the same ID consume one echo
// each and different kinds never collide.
//
// Entries have no TTL: echoes arrive within seconds, and an entry whose echo
// never arrives dies with the process.
type tracker struct {
	mu      sync.Mutex
	pending map[suppressionKey]int
}

func newTracker() *tracker {
	return &tracker{pending: make(map[suppressionKey]int)}
}

// add registers an expected echo. It must be called before the privileged
// action is issued, so the echo can't win the race.
func (t *tracker) add(kind ActionKind, id discord.Snowflake) {
	t.mu.Lock()
	t.pending[suppressionKey{id, kind}]++
	t.mu.Unlock()
}

// consume removes one pending entry and reports whether one existed.
func (t *tracker) consume(kind ActionKind, id discord.Snowflake) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	k := suppressionKey{id, kind}
	n := t.pending[k]
	if n == 0 {
		return false
	}
	if n == 1 {
		delete(t.pending, k)
	} else {
		t.pending[k] = n - 1
	}
	return true
}
