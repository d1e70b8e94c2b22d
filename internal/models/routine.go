package models

// Weekday names a day a routine is assigned to.
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// Routine is a reusable workout template.
type Routine struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	AssignedDays []Weekday `json:"assigned_days,omitempty"`

	RestTimeWorking int `json:"rest_time_working"` // seconds
	RestTimeWarmup  int `json:"rest_time_warmup"`  // seconds

	CreatedAt  int64  `json:"created_at"`
	LastUsedAt *int64 `json:"last_used_at,omitempty"`

	Archived bool `json:"archived"`
}

// RoutineExercise links an exercise into a routine with its position and
// per-exercise plan. A nil RestTimeOverride means the routine default applies;
// exercises sharing a SupersetGroup are performed back to back.
type RoutineExercise struct {
	RoutineID  int64 `json:"routine_id"`
	ExerciseID int64 `json:"exercise_id"`

	OrderIndex  int `json:"order_index"`
	PlannedSets int `json:"planned_sets"`

	SupersetGroup    *int `json:"superset_group,omitempty"`
	RestTimeOverride *int `json:"rest_time_override,omitempty"` // seconds
}
