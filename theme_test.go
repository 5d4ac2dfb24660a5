package breeze_test

import (
	"testing"

	"github.com/fwojciec/breeze"
	"github.com/stretchr/testify/assert"
)

func TestDefaultTheme(t *testing.T) {
	t.Parallel()

	theme := breeze.DefaultTheme()

	assert.Equal(t, 4, theme.UserMsg)
	assert.Equal(t, 3, theme.ToolCall)
	assert.Equal(t, 6, theme.Weather)
	assert.Equal(t, 1, theme.Error)
	assert.Equal(t, 2, theme.Success)
	assert.Equal(t, 8, theme.Muted)
	assert.Equal(t, 5, theme.Accent)
}
