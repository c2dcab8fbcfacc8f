package chapters

import (
	"sync"

	"ryujin/models"
)

// State names where a submitted chapter currently is.
type State string

const (
	StateQueued        State = "queued"
	StateFetchingPages State = "fetching_pages"
	StateDownloading   State = "downloading"
	StateSlicing       State = "slicing"
	StateGrouping      State = "grouping"
	StateDone          State = "done"
	StateFailed        State = "failed"
)

// Terminal reports whether no further state changes can follow.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// Status is one tracked download.
type Status struct {
	Chapter models.Chapter
	State   State
	Percent int
}

// StatusList tracks submitted chapters by chapter ID. Its main job is
// duplicate prevention: a chapter already in a non-terminal state cannot be
// submitted again.
type StatusList struct {
	mu      sync.Mutex
	entries map[string]*Status
}

func NewStatusList() *StatusList {
	return &StatusList{entries: make(map[string]*Status)}
}

// Add registers a chapter as queued. It returns false when the chapter is
// already tracked in a non-terminal state.
func (l *StatusList) Add(ch models.Chapter) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if existing, ok := l.entries[ch.ID]; ok && !existing.State.Terminal() {
		return false
	}
	l.entries[ch.ID] = &Status{Chapter: ch, State: StateQueued}
	return true
}

// SetState moves a tracked chapter to a new state.
func (l *StatusList) SetState(id string, state State) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if entry, ok := l.entries[id]; ok {
		entry.State = state
	}
}

// SetPercent records stage progress for a tracked chapter.
func (l *StatusList) SetPercent(id string, percent int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if entry, ok := l.entries[id]; ok {
		entry.Percent = percent
	}
}

// Remove drops a chapter from tracking.
func (l *StatusList) Remove(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, id)
}

// Get returns a copy of one tracked status.
func (l *StatusList) Get(id string) (Status, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if entry, ok := l.entries[id]; ok {
		return *entry, true
	}
	return Status{}, false
}

// Active counts chapters in non-terminal states.
func (l *StatusList) Active() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	active := 0
	for _, entry := range l.entries {
		if !entry.State.Terminal() {
			active++
		}
	}
	return active
}
