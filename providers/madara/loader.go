package madara

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"ryujin/providers"
)

// Directories never scanned for definitions.
var excludedDirs = map[string]bool{
	"template":    true,
	"__pycache__": true,
	"cache":       true,
}

// LoadDefinition reads and validates a single definition file.
func LoadDefinition(path string) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("error reading definition %s: %w", path, err)
	}

	var def Definition
	if err := json.Unmarshal(data, &def); err != nil {
		return Definition{}, fmt.Errorf("error parsing definition %s: %w", path, err)
	}
	if err := def.validate(); err != nil {
		return Definition{}, err
	}
	return def, nil
}

// LoadDirectory walks dir for *.json definition files and registers each as
// an external provider override. A broken file is logged and skipped; it
// never stops the scan. Returns the number of providers registered.
func LoadDirectory(dir string) int {
	loaded := 0

	err := filepath.WalkDir(dir, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			log.Printf("[Madara] Skipping %s: %v", path, err)
			return nil
		}
		if entry.IsDir() {
			if excludedDirs[entry.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			return nil
		}

		def, err := LoadDefinition(path)
		if err != nil {
			log.Printf("[Madara] Skipping %s: %v", path, err)
			return nil
		}

		provider, err := New(def)
		if err != nil {
			log.Printf("[Madara] Skipping %s: %v", path, err)
			return nil
		}

		providers.RegisterOverride(provider)
		loaded++
		return nil
	})
	if err != nil {
		log.Printf("[Madara] Error scanning %s: %v", dir, err)
	}

	log.Printf("[Madara] Loaded %d external providers from %s", loaded, dir)
	return loaded
}
