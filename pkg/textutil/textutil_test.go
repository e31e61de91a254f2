package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "forca", Fold("Força"))
	assert.Equal(t, "inteligencia", Fold(" INTELIGÊNCIA "))
	assert.True(t, EqualFold("Destreza", "destreza"))
	assert.False(t, EqualFold("vigor", "carisma"))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "punch hard", Sanitize("  <b>punch</b> hard<script>x()</script> "))
	assert.Equal(t, "", Sanitize("   "))
}

func TestSanitizeKeepsPunctuation(t *testing.T) {
	assert.Equal(t, "don't & won't", Sanitize("don't & won't"))
}
