package workout

import (
	"sort"

	"github.com/claude/fittrack/internal/models"
)

// WarmupSet is one recommended warmup: a load and a rep count.
type WarmupSet struct {
	Weight float64 `json:"weight"`
	Reps   int     `json:"reps"`
}

// WarmupPlan derives warmup sets for a working weight from the user's warmup
// template. For barbell exercises each load rounds down to what the bar plus
// available plate pairs can actually total; other equipment keeps the raw
// percentage.
func WarmupPlan(workingWeight float64, category models.ExerciseCategory, s models.UserSettings) []WarmupSet {
	if workingWeight <= 0 || len(s.WarmupTemplate) == 0 {
		return nil
	}

	plan := make([]WarmupSet, 0, len(s.WarmupTemplate))
	for _, step := range s.WarmupTemplate {
		target := workingWeight * step.Percentage
		if category == models.CategoryBarbell {
			target = roundToPlates(target, s.BarbellWeight, s.AvailablePlates)
		}
		plan = append(plan, WarmupSet{Weight: target, Reps: step.Reps})
	}
	return plan
}

// roundToPlates rounds target down to the nearest load loadable as the bar
// plus symmetric plate pairs, greedily using the heaviest plates first.
// Targets at or below the bar weight return the bare bar.
func roundToPlates(target, barWeight float64, plates []float64) float64 {
	if target <= barWeight || len(plates) == 0 {
		return barWeight
	}

	sorted := append([]float64(nil), plates...)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))

	perSide := (target - barWeight) / 2
	loaded := 0.0
	for _, plate := range sorted {
		if plate <= 0 {
			continue
		}
		for perSide-loaded >= plate {
			loaded += plate
		}
	}
	return barWeight + 2*loaded
}
