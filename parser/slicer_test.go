package parser

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ryujin/models"
)

func writePage(t *testing.T, dir, name string, width, height int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	img := imaging.New(width, height, image.White.C)
	require.NoError(t, imaging.Save(img, path))
	return path
}

func TestSliceChapterEmpty(t *testing.T) {
	var last int
	ch, err := SliceChapter(models.DownloadedChapter{Number: "1"}, 100, func(p int) { last = p })
	require.NoError(t, err)
	assert.Empty(t, ch.Files)
	assert.Equal(t, 100, last)
}

func TestSliceChapterShortPagesUntouched(t *testing.T) {
	dir := t.TempDir()
	page := writePage(t, dir, "001.png", 10, 50)

	ch, err := SliceChapter(models.DownloadedChapter{Number: "1", Files: []string{page}}, 100, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{page}, ch.Files)
	assert.FileExists(t, page)
}

func TestSliceChapterTallPage(t *testing.T) {
	dir := t.TempDir()
	short := writePage(t, dir, "001.png", 10, 80)
	tall := writePage(t, dir, "002.png", 10, 250)

	var progress []int
	ch, err := SliceChapter(
		models.DownloadedChapter{Number: "1", Files: []string{short, tall}},
		100,
		func(p int) { progress = append(progress, p) },
	)
	require.NoError(t, err)

	// 250px at a 100px limit yields three strips; the short page survives.
	assert.Equal(t, []string{
		short,
		filepath.Join(dir, "002-01.png"),
		filepath.Join(dir, "002-02.png"),
		filepath.Join(dir, "002-03.png"),
	}, ch.Files)

	// Original tall page is gone.
	assert.NoFileExists(t, tall)

	// Last strip holds the 50px remainder.
	img, err := imaging.Open(filepath.Join(dir, "002-03.png"))
	require.NoError(t, err)
	assert.Equal(t, 50, img.Bounds().Dy())

	assert.Equal(t, 100, progress[len(progress)-1])
}

func TestSliceChapterMissingFile(t *testing.T) {
	_, err := SliceChapter(models.DownloadedChapter{
		Number: "1",
		Files:  []string{filepath.Join(t.TempDir(), "gone.png")},
	}, 100, nil)
	assert.Error(t, err)
}

func TestSliceChapterDefaultHeight(t *testing.T) {
	dir := t.TempDir()
	page := writePage(t, dir, "001.png", 5, 60)

	// Zero maxHeight falls back to the default, far above 60px.
	ch, err := SliceChapter(models.DownloadedChapter{Number: "1", Files: []string{page}}, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{page}, ch.Files)
	_, statErr := os.Stat(page)
	assert.NoError(t, statErr)
}
