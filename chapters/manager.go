// Package chapters keeps the chapter list shown to the user: the full list
// from the provider plus a filtered, invertible view over it.
package chapters

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"ryujin/models"
	"ryujin/parser"
)

var (
	minimumPattern = regexp.MustCompile(`^(\d+(\.\d+)?)\*`)
	rangePattern   = regexp.MustCompile(`^(\d+(\.\d+)?)-(\d+(\.\d+)?)`)
)

// RenderFunc receives the full view after every change. The consumer rebuilds
// its list from scratch; no incremental updates.
type RenderFunc func([]models.Chapter)

// Manager owns the chapter list and its current view. All mutating calls
// rebuild the view and push it through the render callback.
type Manager struct {
	mu     sync.Mutex
	all    []models.Chapter
	view   []models.Chapter
	render RenderFunc
}

// NewManager builds a manager. render may be nil.
func NewManager(render RenderFunc) *Manager {
	if render == nil {
		render = func([]models.Chapter) {}
	}
	return &Manager{render: render}
}

// SetChapters replaces the full list and resets the view to it.
func (m *Manager) SetChapters(chapters []models.Chapter) {
	m.mu.Lock()
	m.all = append([]models.Chapter(nil), chapters...)
	m.view = append([]models.Chapter(nil), m.all...)
	view := m.snapshot()
	m.mu.Unlock()

	m.render(view)
}

// View returns a copy of the current view.
func (m *Manager) View() []models.Chapter {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot()
}

func (m *Manager) snapshot() []models.Chapter {
	return append([]models.Chapter(nil), m.view...)
}

// Filter rebuilds the view from the full list according to query:
//
//	""      - the full list
//	"5*"    - chapters numbered 5 and up
//	"2-4.5" - chapters in the closed range
//	"5"     - substring match on the raw number field
//
// Chapters without a parseable number never match a numeric query; a numeric
// query that fails to parse yields an empty view rather than the full list.
func (m *Manager) Filter(query string) {
	m.mu.Lock()

	switch {
	case query == "":
		m.view = append([]models.Chapter(nil), m.all...)

	case minimumPattern.MatchString(query):
		m.view = m.filterNumeric(minimumPattern.FindStringSubmatch(query)[1], "")

	case rangePattern.MatchString(query):
		groups := rangePattern.FindStringSubmatch(query)
		m.view = m.filterNumeric(groups[1], groups[3])

	default:
		selected := []models.Chapter{}
		for _, ch := range m.all {
			if strings.Contains(ch.Number, query) {
				selected = append(selected, ch)
			}
		}
		m.view = selected
	}

	view := m.snapshot()
	m.mu.Unlock()

	m.render(view)
}

// filterNumeric keeps chapters whose extracted number is >= low, and <= high
// when high is non-empty. A bound that fails to parse empties the view.
func (m *Manager) filterNumeric(low, high string) []models.Chapter {
	lowValue, err := strconv.ParseFloat(low, 64)
	if err != nil {
		return []models.Chapter{}
	}
	highValue := math.Inf(1)
	if high != "" {
		highValue, err = strconv.ParseFloat(high, 64)
		if err != nil {
			return []models.Chapter{}
		}
	}

	selected := []models.Chapter{}
	for _, ch := range m.all {
		number, ok := parser.ExtractNumber(ch.Number)
		if !ok {
			continue
		}
		if number >= lowValue && number <= highValue {
			selected = append(selected, ch)
		}
	}
	return selected
}

// Invert reverses the current view in place. It touches only the view, so a
// later Filter starts from the full list again.
func (m *Manager) Invert() {
	m.mu.Lock()
	for i, j := 0, len(m.view)-1; i < j; i, j = i+1, j-1 {
		m.view[i], m.view[j] = m.view[j], m.view[i]
	}
	view := m.snapshot()
	m.mu.Unlock()

	m.render(view)
}
