package arena

import (
	"fmt"
	"strings"
)

// Event categories recorded by the simulation.
const (
	CategoryCombat  = "combat"
	CategoryMove    = "move"
	CategoryReload  = "reload"
	CategoryEpisode = "episode"
)

// Event is one recorded occurrence during an episode.
type Event struct {
	Tick      int
	Character string  // username, or "--" for episode-wide events
	Category  string  // combat, move, reload, episode
	Key       string  // specific event name within the category
	Value     string  // human-readable detail
	NumVal    float64 // optional numeric payload (damage, distance)
}

// String formats the entry as a fixed-width log line.
//
//	[T=042] alpha      combat    hit              bravo -20
func (e Event) String() string {
	return fmt.Sprintf("[T=%03d] %-10s %-9s %-16s %s",
		e.Tick, e.Character, e.Category, e.Key, e.Value)
}

// EventLog collects structured events for one episode. It is unbounded and
// cleared on every Environment reset.
type EventLog struct {
	entries []Event
	verbose bool
}

// NewEventLog creates an EventLog. If verbose is true, per-step position
// entries are recorded too.
func NewEventLog(verbose bool) *EventLog {
	return &EventLog{verbose: verbose}
}

// Add records a new entry.
func (l *EventLog) Add(tick int, character, category, key, value string, numVal float64) {
	if l == nil {
		return
	}
	l.entries = append(l.entries, Event{
		Tick:      tick,
		Character: character,
		Category:  category,
		Key:       key,
		Value:     value,
		NumVal:    numVal,
	})
}

// AddVerbose records an entry only when verbose mode is on.
func (l *EventLog) AddVerbose(tick int, character, category, key, value string, numVal float64) {
	if l == nil || !l.verbose {
		return
	}
	l.Add(tick, character, category, key, value, numVal)
}

// Reset drops all entries.
func (l *EventLog) Reset() {
	if l == nil {
		return
	}
	l.entries = l.entries[:0]
}

// Entries returns all recorded entries.
func (l *EventLog) Entries() []Event {
	if l == nil {
		return nil
	}
	return l.entries
}

func (e Event) is(category, key string) bool {
	return (category == "" || e.Category == category) && (key == "" || e.Key == key)
}

// Filter returns entries matching category and key; an empty string matches
// anything.
func (l *EventLog) Filter(category, key string) []Event {
	var out []Event
	for _, e := range l.Entries() {
		if e.is(category, key) {
			out = append(out, e)
		}
	}
	return out
}

// FilterCharacter returns the entries recorded for one username.
func (l *EventLog) FilterCharacter(username string) []Event {
	var out []Event
	for _, e := range l.Entries() {
		if e.Character == username {
			out = append(out, e)
		}
	}
	return out
}

// Count is len(Filter(category, key)) without the copy.
func (l *EventLog) Count(category, key string) int {
	n := 0
	for _, e := range l.Entries() {
		if e.is(category, key) {
			n++
		}
	}
	return n
}

// LastOf returns the most recent entry matching category and key.
func (l *EventLog) LastOf(category, key string) (Event, bool) {
	entries := l.Entries()
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].is(category, key) {
			return entries[i], true
		}
	}
	return Event{}, false
}

// Format renders one line per entry, for test failure output.
func (l *EventLog) Format() string {
	lines := make([]string, 0, len(l.Entries())+1)
	for _, e := range l.Entries() {
		lines = append(lines, e.String())
	}
	return strings.Join(append(lines, ""), "\n")
}
