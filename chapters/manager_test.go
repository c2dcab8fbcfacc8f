package chapters

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ryujin/models"
)

func chapterList(numbers ...string) []models.Chapter {
	list := make([]models.Chapter, 0, len(numbers))
	for _, n := range numbers {
		list = append(list, models.Chapter{ID: "ch-" + n, Number: n, Name: "Test"})
	}
	return list
}

func numbers(view []models.Chapter) []string {
	out := make([]string, 0, len(view))
	for _, ch := range view {
		out = append(out, ch.Number)
	}
	return out
}

func TestFilterMinimum(t *testing.T) {
	m := NewManager(nil)
	m.SetChapters(chapterList("3", "5", "5.5", "10", "abc"))

	m.Filter("5*")
	assert.Equal(t, []string{"5", "5.5", "10"}, numbers(m.View()))
}

func TestFilterRange(t *testing.T) {
	m := NewManager(nil)
	m.SetChapters(chapterList("1", "2", "3", "4.5", "5"))

	m.Filter("2-4.5")
	assert.Equal(t, []string{"2", "3", "4.5"}, numbers(m.View()))

	m.Filter("2-4")
	assert.Equal(t, []string{"2", "3"}, numbers(m.View()))
}

func TestFilterSubstring(t *testing.T) {
	m := NewManager(nil)
	m.SetChapters(chapterList("5", "5.5", "15", "Extra"))

	// A bare token is a substring match against the raw number field.
	m.Filter("5")
	assert.Equal(t, []string{"5", "5.5", "15"}, numbers(m.View()))

	m.Filter("5.5")
	assert.Equal(t, []string{"5.5"}, numbers(m.View()))

	// Non-numeric chapters match substring filters literally.
	m.Filter("Ext")
	assert.Equal(t, []string{"Extra"}, numbers(m.View()))
}

func TestFilterResetAndMalformed(t *testing.T) {
	m := NewManager(nil)
	m.SetChapters(chapterList("1", "2", "3"))

	m.Filter("2-3")
	assert.Len(t, m.View(), 2)

	// Empty query restores the full list.
	m.Filter("")
	assert.Equal(t, []string{"1", "2", "3"}, numbers(m.View()))

	// A query matching no number yields an empty view, not the full list.
	m.Filter("abc")
	assert.Empty(t, m.View())

	// And a later filter starts from the full list again.
	m.Filter("3*")
	assert.Equal(t, []string{"3"}, numbers(m.View()))
}

func TestInvert(t *testing.T) {
	m := NewManager(nil)
	m.SetChapters(chapterList("1", "2", "3"))

	m.Invert()
	assert.Equal(t, []string{"3", "2", "1"}, numbers(m.View()))

	// Inverting twice restores the order.
	m.Invert()
	assert.Equal(t, []string{"1", "2", "3"}, numbers(m.View()))
}

func TestInvertDoesNotTouchFullList(t *testing.T) {
	m := NewManager(nil)
	m.SetChapters(chapterList("1", "2", "3"))

	m.Invert()
	m.Filter("")
	assert.Equal(t, []string{"1", "2", "3"}, numbers(m.View()))
}

func TestRenderCallback(t *testing.T) {
	var rendered [][]models.Chapter
	m := NewManager(func(view []models.Chapter) { rendered = append(rendered, view) })

	m.SetChapters(chapterList("1", "2"))
	m.Filter("2")
	m.Invert()

	assert.Len(t, rendered, 3)
	assert.Len(t, rendered[0], 2)
	assert.Equal(t, []string{"2"}, numbers(rendered[1]))
}
