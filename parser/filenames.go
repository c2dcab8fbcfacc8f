package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/kennygrant/sanitize"
)

// numberToken matches the first numeric token in a chapter number string,
// e.g. "10", "10.5", the "72" in "Chapter 72 - Finale".
var numberToken = regexp.MustCompile(`\d+(\.\d+)?`)

// SanitizeName strips characters that are illegal in filesystem paths from
// a series title or chapter number so it can be used as a directory name.
func SanitizeName(name string) string {
	cleaned := sanitize.BaseName(strings.TrimSpace(name))
	if cleaned == "" {
		return "untitled"
	}
	return cleaned
}

// PageFileName builds the zero-padded file name for a page index (1-based),
// e.g. PageFileName(4, ".jpg") -> "004.jpg".
func PageFileName(index int, ext string) string {
	return fmt.Sprintf("%03d%s", index, ext)
}

// ExtractNumber returns the first numeric token found in a chapter number
// string. The second return is false when the string holds no number at all.
func ExtractNumber(number string) (float64, bool) {
	match := numberToken.FindString(number)
	if match == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// ExpandPath expands a leading ~/ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(homeDir, path[2:]), nil
	}
	return path, nil
}
