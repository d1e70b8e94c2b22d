package workout

import (
	"testing"

	"github.com/claude/fittrack/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestRoundToPlates(t *testing.T) {
	plates := []float64{1.25, 2.5, 5, 10, 15, 20, 25}

	tests := []struct {
		name   string
		target float64
		want   float64
	}{
		{"below bar returns bare bar", 15, 20},
		{"exactly bar", 20, 20},
		{"exact plate load", 60, 60},          // 20 + 2x20
		{"rounds down", 61, 60},               // cannot load 0.5/side
		{"small increment", 22.5, 22.5},       // 2x1.25
		{"heavy", 142.5, 142.5},               // 61.25/side = 25+25+10+1.25
		{"uneven rounds to nearest 2.5", 101, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, roundToPlates(tt.target, 20, plates), 1e-9)
		})
	}
}

func TestRoundToPlatesNoPlates(t *testing.T) {
	assert.Equal(t, 20.0, roundToPlates(100, 20, nil))
}

func TestWarmupPlanBarbell(t *testing.T) {
	settings := models.DefaultSettings(0)

	plan := WarmupPlan(100, models.CategoryBarbell, settings)
	assert.Len(t, plan, 3)

	// 50% of 100 = 50 → 20 + 2x15; 70% = 70 → exact; 90% = 90 → exact.
	assert.InDelta(t, 50, plan[0].Weight, 1e-9)
	assert.Equal(t, 12, plan[0].Reps)
	assert.InDelta(t, 70, plan[1].Weight, 1e-9)
	assert.Equal(t, 8, plan[1].Reps)
	assert.InDelta(t, 90, plan[2].Weight, 1e-9)
	assert.Equal(t, 2, plan[2].Reps)
}

func TestWarmupPlanNonBarbellKeepsRawPercentage(t *testing.T) {
	settings := models.DefaultSettings(0)

	plan := WarmupPlan(43, models.CategoryMachine, settings)
	assert.Len(t, plan, 3)
	assert.InDelta(t, 21.5, plan[0].Weight, 1e-9)
}

func TestWarmupPlanEdgeCases(t *testing.T) {
	settings := models.DefaultSettings(0)

	assert.Nil(t, WarmupPlan(0, models.CategoryBarbell, settings))

	settings.WarmupTemplate = nil
	assert.Nil(t, WarmupPlan(100, models.CategoryBarbell, settings))
}
