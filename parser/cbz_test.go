package parser

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ryujin/models"
)

func TestGroupChapterEmpty(t *testing.T) {
	var last int
	path, err := GroupChapter(models.DownloadedChapter{Number: "1"}, func(p int) { last = p })
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, 100, last)
}

func TestGroupChapter(t *testing.T) {
	root := t.TempDir()
	chapterDir := filepath.Join(root, "5")
	require.NoError(t, os.MkdirAll(chapterDir, 0755))

	files := []string{}
	for _, name := range []string{"001.jpg", "002.jpg", "003.jpg"} {
		file := filepath.Join(chapterDir, name)
		require.NoError(t, os.WriteFile(file, []byte(name), 0644))
		files = append(files, file)
	}

	var progress []int
	path, err := GroupChapter(
		models.DownloadedChapter{Number: "5", Files: files},
		func(p int) { progress = append(progress, p) },
	)
	require.NoError(t, err)
	assert.Equal(t, chapterDir+".cbz", path)

	// Loose files and the chapter directory are cleaned up.
	assert.NoDirExists(t, chapterDir)

	reader, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer reader.Close()

	names := []string{}
	for _, entry := range reader.File {
		names = append(names, entry.Name)
	}
	assert.Equal(t, []string{"001.jpg", "002.jpg", "003.jpg"}, names)

	assert.Equal(t, []int{34, 67, 100}, progress)
}

func TestGroupChapterMissingFile(t *testing.T) {
	root := t.TempDir()
	chapterDir := filepath.Join(root, "5")
	require.NoError(t, os.MkdirAll(chapterDir, 0755))

	missing := filepath.Join(chapterDir, "001.jpg")
	_, err := GroupChapter(models.DownloadedChapter{Number: "5", Files: []string{missing}}, nil)
	assert.Error(t, err)
	assert.NoFileExists(t, chapterDir+".cbz")
}
