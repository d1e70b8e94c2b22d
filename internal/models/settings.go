package models

// GymType describes the equipment environment the user trains in.
type GymType string

const (
	GymFull          GymType = "full_gym"
	GymHome          GymType = "home_gym"
	GymDumbbellsOnly GymType = "dumbbells_only"
	GymBodyweight    GymType = "bodyweight"
	GymOutdoor       GymType = "outdoor"
)

// WarmupStep is one entry of the warmup template: a fraction of the working
// weight and the rep count to perform at it.
type WarmupStep struct {
	Percentage float64 `json:"percentage"`
	Reps       int     `json:"reps"`
}

// UserSettings is the singleton settings row (id = 1). Created lazily with
// defaults on first read; every save stamps UpdatedAt.
type UserSettings struct {
	ID int64 `json:"id"`

	DisplayName string `json:"display_name,omitempty"`
	Email       string `json:"email,omitempty"`

	GymType            GymType            `json:"gym_type"`
	AvailableEquipment []ExerciseCategory `json:"available_equipment"`
	AvailablePlates    []float64          `json:"available_plates"` // kg, per pair
	BarbellWeight      float64            `json:"barbell_weight"`   // kg

	UseMetric bool `json:"use_metric"`

	DefaultRestWorking int `json:"default_rest_working"` // seconds
	DefaultRestWarmup  int `json:"default_rest_warmup"`  // seconds

	WarmupTemplate []WarmupStep `json:"warmup_template"`

	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// DefaultSettings returns the settings row created on first read.
func DefaultSettings(nowMillis int64) UserSettings {
	return UserSettings{
		ID:      1,
		GymType: GymFull,
		AvailableEquipment: []ExerciseCategory{
			CategoryBarbell, CategoryDumbbell, CategoryMachine, CategoryCable,
			CategoryBodyweight, CategoryKettlebell, CategoryBand, CategoryCardio,
		},
		AvailablePlates:    []float64{1.25, 2.5, 5, 10, 15, 20, 25},
		BarbellWeight:      20,
		UseMetric:          true,
		DefaultRestWorking: 90,
		DefaultRestWarmup:  60,
		WarmupTemplate: []WarmupStep{
			{Percentage: 0.50, Reps: 12},
			{Percentage: 0.70, Reps: 8},
			{Percentage: 0.90, Reps: 2},
		},
		CreatedAt: nowMillis,
		UpdatedAt: nowMillis,
	}
}

// BodyMeasurement is one date-stamped body weight entry. The log is
// append-only.
type BodyMeasurement struct {
	ID         int64    `json:"id"`
	Date       int64    `json:"date"` // epoch millis
	BodyWeight float64  `json:"body_weight"` // kg
	BodyFat    *float64 `json:"body_fat,omitempty"` // percent
	Notes      string   `json:"notes,omitempty"`
	CreatedAt  int64    `json:"created_at"`
}
