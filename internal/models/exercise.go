package models

// ExerciseCategory classifies an exercise by the equipment it needs.
type ExerciseCategory string

const (
	CategoryBarbell    ExerciseCategory = "barbell"
	CategoryDumbbell   ExerciseCategory = "dumbbell"
	CategoryMachine    ExerciseCategory = "machine"
	CategoryCable      ExerciseCategory = "cable"
	CategoryBodyweight ExerciseCategory = "bodyweight"
	CategoryKettlebell ExerciseCategory = "kettlebell"
	CategoryBand       ExerciseCategory = "band"
	CategoryCardio     ExerciseCategory = "cardio"
	CategoryTRX        ExerciseCategory = "trx"
	CategoryBall       ExerciseCategory = "ball"
	CategoryRoller     ExerciseCategory = "roller"
	CategoryCompound   ExerciseCategory = "compound"
	CategoryStretching ExerciseCategory = "stretching"
	CategoryOther      ExerciseCategory = "other"
)

// MuscleGroup identifies the muscles an exercise targets.
type MuscleGroup string

const (
	MuscleChest      MuscleGroup = "chest"
	MuscleBack       MuscleGroup = "back"
	MuscleShoulders  MuscleGroup = "shoulders"
	MuscleBiceps     MuscleGroup = "biceps"
	MuscleTriceps    MuscleGroup = "triceps"
	MuscleForearms   MuscleGroup = "forearms"
	MuscleQuads      MuscleGroup = "quads"
	MuscleHamstrings MuscleGroup = "hamstrings"
	MuscleGlutes     MuscleGroup = "glutes"
	MuscleCalves     MuscleGroup = "calves"
	MuscleAbs        MuscleGroup = "abs"
	MuscleLowerBack  MuscleGroup = "lower_back"
	MuscleTraps      MuscleGroup = "traps"
	MuscleOther      MuscleGroup = "other"
)

// TrackingType defines which measurement fields apply to an exercise's sets.
type TrackingType string

const (
	TrackReps               TrackingType = "reps"
	TrackWeightReps         TrackingType = "weight_x_reps"
	TrackTime               TrackingType = "time"
	TrackWeightTime         TrackingType = "weight_x_time"
	TrackResistanceReps     TrackingType = "resistance_x_reps"
	TrackDistanceKcalTime   TrackingType = "distance_x_kcal_x_time"
)

// UsesWeight reports whether sets of this tracking type carry a weight value.
func (t TrackingType) UsesWeight() bool {
	return t == TrackWeightReps || t == TrackWeightTime
}

// UsesReps reports whether sets of this tracking type carry a rep count.
func (t TrackingType) UsesReps() bool {
	return t == TrackReps || t == TrackWeightReps || t == TrackResistanceReps
}

// UsesTime reports whether sets of this tracking type carry a duration.
func (t TrackingType) UsesTime() bool {
	return t == TrackTime || t == TrackWeightTime || t == TrackDistanceKcalTime
}

// Exercise is a catalog entry. Seeded entries are immutable; only custom
// exercises may be edited or deleted by the user.
type Exercise struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	NamePl string `json:"name_pl,omitempty"`

	Description string `json:"description,omitempty"`

	Category     ExerciseCategory `json:"category"`
	TrackingType TrackingType     `json:"tracking_type"`

	MainMuscle       MuscleGroup   `json:"main_muscle"`
	SecondaryMuscles []MuscleGroup `json:"secondary_muscles,omitempty"`

	Unilateral bool `json:"unilateral"`

	// VolumeMultiplier scales weight×reps volume for exercises where the
	// nominal load understates the work (cable stacks, assisted machines).
	VolumeMultiplier float64 `json:"volume_multiplier"`

	Notes string `json:"notes,omitempty"`

	IsCustom  bool  `json:"is_custom"`
	CreatedAt int64 `json:"created_at"` // epoch millis
}
