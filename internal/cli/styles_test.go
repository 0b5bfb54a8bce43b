package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/finbrains/finbrains/internal/budget"
)

func TestBandStyle(t *testing.T) {
	assert.Equal(t, SuccessStyle, BandStyle(budget.BandNominal))
	assert.Equal(t, WarningStyle, BandStyle(budget.BandWarning))
	assert.Equal(t, ErrorStyle, BandStyle(budget.BandOver))
}

func TestRenderBudgetBar(t *testing.T) {
	out := RenderBudgetBar(50, 10)
	assert.Contains(t, out, "50%")

	// Raw percentage survives the fill clamp.
	out = RenderBudgetBar(110, 10)
	assert.Contains(t, out, "110%")

	// Negative values display as zero.
	out = RenderBudgetBar(-20, 10)
	assert.Contains(t, out, "0%")
}
