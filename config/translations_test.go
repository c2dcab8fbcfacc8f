package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabel(t *testing.T) {
	assert.Equal(t, "downloading", Label("en", "downloading"))
	assert.Equal(t, "baixando", Label("pt_BR", "downloading"))
	assert.Equal(t, "cortando", Label("es", "slicing"))
}

func TestLabelFallsBackToEnglish(t *testing.T) {
	assert.Equal(t, "downloading", Label("fr", "downloading"))
	assert.Equal(t, "downloading", Label("", "downloading"))
}

func TestLabelUnknownKey(t *testing.T) {
	assert.Equal(t, "does-not-exist", Label("en", "does-not-exist"))
}

func TestLanguages(t *testing.T) {
	langs := Languages()
	assert.Contains(t, langs, "en")
	assert.Contains(t, langs, "pt_BR")
	assert.Contains(t, langs, "es")
}
