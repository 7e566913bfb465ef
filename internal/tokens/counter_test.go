package tokens

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCount_Empty(t *testing.T) {
	assert.Equal(t, Result{}, Count(""))
	assert.Equal(t, Result{}, Count("   \n\t "))
}

func TestCount_SimpleText(t *testing.T) {
	res := Count("hello world")

	assert.Equal(t, []string{"hello", "world"}, res.Tokens)
	// 11 chars at ~4 chars per token rounds up to 3
	assert.Equal(t, 3, res.Total)
}

func TestCount_NeverBelowWordCount(t *testing.T) {
	// Nine one-letter words: char estimate alone would undercount
	res := Count("a b c d e f g h i")

	assert.Len(t, res.Tokens, 9)
	assert.GreaterOrEqual(t, res.Total, 9)
}

func TestCount_GrowsWithLength(t *testing.T) {
	short := Count("a quick note")
	long := Count(strings.Repeat("a considerably longer paragraph of text ", 20))

	assert.Greater(t, long.Total, short.Total)
}
