package parser

import (
	"fmt"
	"image"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"ryujin/models"
)

// SliceChapter re-segments tall page images into reader-sized strips no
// taller than maxHeight pixels. Pages within the height limit are kept as
// they are. The returned chapter lists the resulting files in reading order.
// fn receives progress from 0 to 100 as pages are processed.
func SliceChapter(ch models.DownloadedChapter, maxHeight int, fn func(int)) (models.DownloadedChapter, error) {
	if maxHeight <= 0 {
		maxHeight = 5000
	}

	total := len(ch.Files)
	if total == 0 {
		if fn != nil {
			fn(100)
		}
		return ch, nil
	}

	out := make([]string, 0, total)

	for i, file := range ch.Files {
		img, err := imaging.Open(file)
		if err != nil {
			return ch, fmt.Errorf("failed to open %s for slicing: %w", file, err)
		}

		bounds := img.Bounds()
		height := bounds.Dy()

		if height <= maxHeight {
			out = append(out, file)
		} else {
			strips, err := sliceImage(img, file, maxHeight)
			if err != nil {
				return ch, err
			}
			if err := os.Remove(file); err != nil {
				log.Printf("[Slicer] Failed to remove original %s: %v", file, err)
			}
			out = append(out, strips...)
		}

		if fn != nil {
			fn(int(math.Ceil(float64(i+1) * 100 / float64(total))))
		}
	}

	if fn != nil {
		fn(100)
	}

	return models.DownloadedChapter{Number: ch.Number, Files: out}, nil
}

// sliceImage cuts one tall image into strips named after the source file,
// e.g. 003.jpg -> 003-01.jpg, 003-02.jpg. Suffixed names keep the strips in
// lexicographic reading order between their neighbors.
func sliceImage(img image.Image, file string, maxHeight int) ([]string, error) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	ext := filepath.Ext(file)
	base := strings.TrimSuffix(file, ext)

	count := (height + maxHeight - 1) / maxHeight
	strips := make([]string, 0, count)

	for part := 0; part < count; part++ {
		top := part * maxHeight
		bottom := top + maxHeight
		if bottom > height {
			bottom = height
		}

		strip := imaging.Crop(img, image.Rect(0, top, width, bottom))
		stripPath := fmt.Sprintf("%s-%02d%s", base, part+1, ext)

		if err := imaging.Save(strip, stripPath); err != nil {
			return nil, fmt.Errorf("failed to save strip %s: %w", stripPath, err)
		}
		strips = append(strips, stripPath)
	}

	return strips, nil
}
