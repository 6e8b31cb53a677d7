package announcement

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exact", truncate("exact", 5))
	assert.Equal(t, "abcd…", truncate("abcdef", 5))
}

func TestTruncateKeepsMultiByteRunesIntact(t *testing.T) {
	t.Parallel()

	// Cutting on byte offsets would split the three-byte runes here and
	// produce an invalid push body.
	body := strings.Repeat("会議", 10)
	got := truncate(body, 7)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "会議会議会議…", got)

	emoji := "🎉🎉🎉🎉🎉"
	got = truncate(emoji, 3)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "🎉🎉…", got)
}
