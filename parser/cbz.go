package parser

import (
	"archive/zip"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"

	"ryujin/models"
)

// GroupChapter bundles a chapter's image files into a single CBZ archive
// next to the chapter directory. On success the loose files are removed and
// the archive path is returned. fn receives progress from 0 to 100.
func GroupChapter(ch models.DownloadedChapter, fn func(int)) (string, error) {
	total := len(ch.Files)
	if total == 0 {
		if fn != nil {
			fn(100)
		}
		return "", nil
	}

	chapterDir := filepath.Dir(ch.Files[0])
	cbzPath := chapterDir + ".cbz"

	archive, err := os.Create(cbzPath)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", cbzPath, err)
	}
	defer archive.Close()

	writer := zip.NewWriter(archive)

	for i, file := range ch.Files {
		if err := addToArchive(writer, file); err != nil {
			writer.Close()
			os.Remove(cbzPath)
			return "", err
		}
		if fn != nil {
			fn(int(math.Ceil(float64(i+1) * 100 / float64(total))))
		}
	}

	if err := writer.Close(); err != nil {
		os.Remove(cbzPath)
		return "", fmt.Errorf("failed to finalize %s: %w", cbzPath, err)
	}

	// Archive is complete, the loose files are no longer needed.
	for _, file := range ch.Files {
		if err := os.Remove(file); err != nil {
			log.Printf("[Group] Failed to remove %s: %v", file, err)
		}
	}
	if err := os.Remove(chapterDir); err != nil {
		log.Printf("[Group] Failed to remove directory %s: %v", chapterDir, err)
	}

	log.Printf("[Group] Created %s (%d pages)", filepath.Base(cbzPath), total)
	return cbzPath, nil
}

func addToArchive(writer *zip.Writer, file string) error {
	src, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", file, err)
	}
	defer src.Close()

	entry, err := writer.Create(filepath.Base(file))
	if err != nil {
		return fmt.Errorf("failed to add %s to archive: %w", file, err)
	}

	if _, err := io.Copy(entry, src); err != nil {
		return fmt.Errorf("failed to write %s to archive: %w", file, err)
	}
	return nil
}
