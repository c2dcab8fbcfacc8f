package config

import (
	_ "embed"
	"encoding/json"
	"log"
	"sync"
)

//go:embed translations.json
var translationsJSON []byte

var (
	translations     map[string]map[string]string
	translationsOnce sync.Once
)

func loadTranslations() {
	if err := json.Unmarshal(translationsJSON, &translations); err != nil {
		log.Printf("error loading translations: %v", err)
		translations = map[string]map[string]string{}
	}
}

// Label returns the display string for key in lang. Unknown languages and
// missing keys fall back to English, then to the key itself.
func Label(lang, key string) string {
	translationsOnce.Do(loadTranslations)

	if table, ok := translations[lang]; ok {
		if value, ok := table[key]; ok {
			return value
		}
	}
	if value, ok := translations["en"][key]; ok {
		return value
	}
	return key
}

// Languages lists the available translation languages.
func Languages() []string {
	translationsOnce.Do(loadTranslations)

	langs := make([]string, 0, len(translations))
	for lang := range translations {
		langs = append(langs, lang)
	}
	return langs
}
