package parser

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"strings"

	webpenc "github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"golang.org/x/image/webp"

	"ryujin/errs"
)

// DetectImageFormat reads the magic bytes and returns the image format.
func DetectImageFormat(data []byte) (string, error) {
	if len(data) < 12 {
		return "", fmt.Errorf("data too short to determine format: %w", errs.ErrConversion)
	}

	if data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF {
		return "jpeg", nil
	}
	if data[0] == 0x89 && data[1] == 0x50 && data[2] == 0x4E && data[3] == 0x47 {
		return "png", nil
	}
	if string(data[0:6]) == "GIF87a" || string(data[0:6]) == "GIF89a" {
		return "gif", nil
	}
	if string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP" {
		return "webp", nil
	}
	if data[0] == 0x42 && data[1] == 0x4D {
		return "bmp", nil
	}

	return "", fmt.Errorf("unknown image format: %w", errs.ErrConversion)
}

// ConvertImage decodes imgBytes and re-encodes them in the format implied by
// the extension of outputPath (".jpg", ".png" or ".webp"). Images with an
// alpha channel are flattened onto white before JPEG encoding.
func ConvertImage(imgBytes []byte, outputPath string) error {
	if len(imgBytes) == 0 {
		return fmt.Errorf("empty image data: %w", errs.ErrConversion)
	}

	format, err := DetectImageFormat(imgBytes)
	if err != nil {
		return err
	}

	var img image.Image
	if format == "webp" {
		img, err = webp.Decode(bytes.NewReader(imgBytes))
	} else {
		img, err = imaging.Decode(bytes.NewReader(imgBytes))
	}
	if err != nil {
		return fmt.Errorf("failed to decode %s image: %v: %w", format, err, errs.ErrConversion)
	}

	return encodeToPath(img, outputPath)
}

func encodeToPath(img image.Image, outputPath string) error {
	dot := strings.LastIndex(outputPath, ".")
	if dot < 0 {
		return fmt.Errorf("output path %q has no extension: %w", outputPath, errs.ErrConversion)
	}

	switch ext := strings.ToLower(outputPath[dot:]); ext {
	case ".jpg", ".jpeg":
		if err := imaging.Save(flatten(img), outputPath, imaging.JPEGQuality(90)); err != nil {
			return fmt.Errorf("jpeg encode failed: %v: %w", err, errs.ErrConversion)
		}
		return nil
	case ".png", ".gif", ".bmp":
		if err := imaging.Save(img, outputPath); err != nil {
			return fmt.Errorf("%s encode failed: %v: %w", ext, err, errs.ErrConversion)
		}
		return nil
	case ".webp":
		file, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("webp encode failed: %v: %w", err, errs.ErrConversion)
		}
		defer file.Close()
		if err := webpenc.Encode(file, img, &webpenc.Options{Quality: 90}); err != nil {
			return fmt.Errorf("webp encode failed: %v: %w", err, errs.ErrConversion)
		}
		return nil
	default:
		return fmt.Errorf("unsupported target format %s: %w", ext, errs.ErrConversion)
	}
}

// flatten composites an image onto a white background, dropping the alpha
// channel so it can be encoded into formats without alpha support.
func flatten(img image.Image) image.Image {
	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(out, bounds, img, bounds.Min, draw.Over)
	return out
}

// SaveRaw writes image bytes to outputPath without re-encoding.
func SaveRaw(data []byte, outputPath string) error {
	return os.WriteFile(outputPath, data, 0644)
}
