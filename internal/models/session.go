package models

// SetType tags a logged set with its role in the workout. Each type carries
// a display color and a one-letter label used by clients.
type SetType string

const (
	SetWarmup    SetType = "warmup"
	SetWorking   SetType = "working"
	SetDropset   SetType = "dropset"
	SetMyoReps   SetType = "myo_reps"
	SetToFailure SetType = "to_failure"
	SetNegative  SetType = "negative"
	SetBackOff   SetType = "back_off"
	SetCluster   SetType = "cluster"
	SetPartial   SetType = "partial"
	SetFailed    SetType = "failed"
)

// setTypeInfo holds the display attributes for one set type.
type setTypeInfo struct {
	color string
	label string
}

var setTypes = map[SetType]setTypeInfo{
	SetWarmup:    {"#4DB6AC", "W"},
	SetWorking:   {"#78909C", ""}, // working sets show their set number instead
	SetDropset:   {"#FFB74D", "D"},
	SetMyoReps:   {"#BA68C8", "M"},
	SetToFailure: {"#E57373", "F"},
	SetNegative:  {"#64B5F6", "N"},
	SetBackOff:   {"#81C784", "B"},
	SetCluster:   {"#FFD54F", "C"},
	SetPartial:   {"#AB47BC", "P"},
	SetFailed:    {"#EF5350", "X"},
}

// Valid reports whether t is a known set type.
func (t SetType) Valid() bool {
	_, ok := setTypes[t]
	return ok
}

// Color returns the display color hex for the set type.
func (t SetType) Color() string { return setTypes[t].color }

// ShortLabel returns the one-letter tag shown next to the set.
func (t SetType) ShortLabel() string { return setTypes[t].label }

// Side marks which side a set of a unilateral exercise was performed on.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
	SideBoth  Side = "both"
)

// TrainingSession is one workout instance. RoutineID is nullable because the
// originating routine may be deleted later; RoutineName is a snapshot taken
// at start so the session survives routine edits.
type TrainingSession struct {
	ID          int64  `json:"id"`
	RoutineID   *int64 `json:"routine_id,omitempty"`
	RoutineName string `json:"routine_name"`

	StartTime int64  `json:"start_time"`          // epoch millis
	EndTime   *int64 `json:"end_time,omitempty"`  // epoch millis

	TotalDuration *int64 `json:"total_duration,omitempty"` // millis

	Comment string `json:"comment,omitempty"`

	Completed bool  `json:"completed"`
	CreatedAt int64 `json:"created_at"`
}

// WorkoutSet is one logged set within a session. ExerciseName is denormalized
// so history stays readable after exercise edits. Measurement fields are
// pointers; the applicable subset depends on the exercise's tracking type.
type WorkoutSet struct {
	ID           int64  `json:"id"`
	SessionID    int64  `json:"session_id"`
	ExerciseID   int64  `json:"exercise_id"`
	ExerciseName string `json:"exercise_name"`

	SetNumber int     `json:"set_number"` // 1-based, contiguous per exercise
	SetType   SetType `json:"set_type"`

	Weight     *float64 `json:"weight,omitempty"`     // kg
	Reps       *int     `json:"reps,omitempty"`
	Time       *int     `json:"time,omitempty"`       // seconds
	Distance   *float64 `json:"distance,omitempty"`   // km
	Resistance *string  `json:"resistance,omitempty"` // e.g. "green band"

	RPE *int `json:"rpe,omitempty"` // 1-10
	RIR *int `json:"rir,omitempty"` // 0-5

	Side *Side `json:"side,omitempty"`

	Completed   bool   `json:"completed"`
	CompletedAt *int64 `json:"completed_at,omitempty"` // epoch millis

	Notes string `json:"notes,omitempty"`

	// Mid-workout substitution: the exercise the routine planned originally.
	OriginalExerciseID *int64 `json:"original_exercise_id,omitempty"`
	Swapped            bool   `json:"swapped"`
}
