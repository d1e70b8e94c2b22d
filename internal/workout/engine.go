// Package workout implements the active-session engine: it owns the lifecycle
// of one workout at a time, accumulates logged sets, drives the elapsed clock
// and the rest countdown, and finalizes the session into a durable record.
package workout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/claude/fittrack/internal/events"
	"github.com/claude/fittrack/internal/models"
)

// Store is the persistence contract the engine consumes. *storage.DB
// satisfies it.
type Store interface {
	FindRoutine(ctx context.Context, id int64) (*models.Routine, error)
	ListRoutineExercises(ctx context.Context, routineID int64) ([]models.RoutineExercise, error)
	FindExercise(ctx context.Context, id int64) (*models.Exercise, error)
	FindSession(ctx context.Context, id int64) (*models.TrainingSession, error)
	ActiveSession(ctx context.Context) (*models.TrainingSession, error)
	InsertSession(ctx context.Context, s *models.TrainingSession) (int64, error)
	UpdateSession(ctx context.Context, s *models.TrainingSession) error
	InsertSet(ctx context.Context, s *models.WorkoutSet) (int64, error)
	UpdateSet(ctx context.Context, s *models.WorkoutSet) error
	DeleteSet(ctx context.Context, id int64) error
	SetsBySession(ctx context.Context, sessionID int64) ([]models.WorkoutSet, error)
	RecentCompletedSets(ctx context.Context, exerciseID int64, limit int) ([]models.WorkoutSet, error)
	TouchRoutineLastUsed(ctx context.Context, id, timestamp int64) error
}

// NotFoundChecker lets the engine distinguish missing-row errors without
// importing the storage package.
type NotFoundChecker func(error) bool

var (
	// ErrSessionActive is returned by Start when an incomplete session exists.
	ErrSessionActive = errors.New("workout: a session is already active")
	// ErrNoSession is returned by set operations before Start/Resume.
	ErrNoSession = errors.New("workout: no active session")
)

// InvalidIndexError reports an exercise or set index outside current bounds.
// It indicates a caller/UI state-sync bug; in-memory state is left untouched.
type InvalidIndexError struct {
	What  string
	Index int
	Count int
}

func (e *InvalidIndexError) Error() string {
	return fmt.Sprintf("workout: %s index %d out of range (have %d)", e.What, e.Index, e.Count)
}

// Events is the engine's notification surface. Every field is fire-and-forget:
// at most one notification per triggering action, no replay for late
// subscribers.
type Events struct {
	SetCompleted      *events.Event[int64]
	RestTimerFinished *events.Event[struct{}]
	WorkoutFinished   *events.Event[int64]
	Error             *events.Event[string]
}

// NewEvents creates an empty event surface.
func NewEvents() *Events {
	return &Events{
		SetCompleted:      events.New[int64](),
		RestTimerFinished: events.New[struct{}](),
		WorkoutFinished:   events.New[int64](),
		Error:             events.New[string](),
	}
}

// Options tune engine behavior. Zero values take the defaults below.
type Options struct {
	HistoryLookback int           // historical sets fetched per exercise (default 20)
	DefaultRest     int           // rest seconds when the routine has none (default 90)
	TickInterval    time.Duration // timer resolution (default 1s)
	Clock           func() time.Time
}

func (o Options) withDefaults() Options {
	if o.HistoryLookback == 0 {
		o.HistoryLookback = 20
	}
	if o.DefaultRest == 0 {
		o.DefaultRest = 90
	}
	if o.TickInterval == 0 {
		o.TickInterval = time.Second
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	return o
}

// ExerciseSlot is one exercise of the active session: the catalog entry, the
// plan taken from the routine, the sets logged so far and the historical sets
// used to seed suggestions (most recent first).
type ExerciseSlot struct {
	Exercise       models.Exercise     `json:"exercise"`
	PlannedSets    int                 `json:"planned_sets"`
	SupersetGroup  *int                `json:"superset_group,omitempty"`
	RestOverride   *int                `json:"rest_override,omitempty"`
	Sets           []models.WorkoutSet `json:"sets"`
	HistoricalSets []models.WorkoutSet `json:"historical_sets"`

	// Set when the exercise was swapped in mid-workout.
	OriginalExerciseID *int64 `json:"original_exercise_id,omitempty"`
}

// Engine drives exactly one active workout. All mutations are serialized
// behind one mutex; persistence writes complete before a mutation is
// acknowledged, so durable state never trails an acknowledged one.
type Engine struct {
	store      Store
	isNotFound NotFoundChecker
	ev         *Events
	log        *slog.Logger
	opts       Options

	mu            sync.Mutex
	sessionID     int64
	routineName   string
	startTime     int64 // epoch millis
	defaultRest   int   // seconds, from the routine
	exercises     []ExerciseSlot
	restRemaining int
	restRunning   bool
	finished      bool

	done chan struct{}
	wg   sync.WaitGroup
}

// New creates an engine. Start or Resume must be called before set operations.
func New(store Store, isNotFound NotFoundChecker, ev *Events, log *slog.Logger, opts Options) *Engine {
	return &Engine{
		store:      store,
		isNotFound: isNotFound,
		ev:         ev,
		log:        log,
		opts:       opts.withDefaults(),
	}
}

// Events returns the engine's notification surface.
func (e *Engine) Events() *Events { return e.ev }

// Start begins a workout from a routine: inserts the session row, snapshots
// the routine's exercise plan, seeds per-exercise history and starts the
// timers. Returns the new session ID.
func (e *Engine) Start(ctx context.Context, routineID int64) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.sessionID != 0 {
		return 0, ErrSessionActive
	}
	if _, err := e.store.ActiveSession(ctx); err == nil {
		return 0, ErrSessionActive
	} else if !e.isNotFound(err) {
		return 0, fmt.Errorf("checking active session: %w", err)
	}

	routine, err := e.store.FindRoutine(ctx, routineID)
	if err != nil {
		e.ev.Error.Notify("routine not found")
		return 0, fmt.Errorf("starting session: %w", err)
	}

	// Slots load before the session row is inserted; a failure here must
	// not leave an incomplete row behind.
	slots, err := e.buildSlots(ctx, routineID)
	if err != nil {
		return 0, err
	}

	now := e.opts.Clock().UnixMilli()
	session := &models.TrainingSession{
		RoutineID:   &routineID,
		RoutineName: routine.Name,
		StartTime:   now,
		CreatedAt:   now,
	}
	sessionID, err := e.store.InsertSession(ctx, session)
	if err != nil {
		e.ev.Error.Notify("could not start session")
		return 0, fmt.Errorf("inserting session: %w", err)
	}

	if err := e.store.TouchRoutineLastUsed(ctx, routineID, now); err != nil {
		e.log.Warn("touching routine last-used failed", "routine_id", routineID, "error", err)
	}

	e.sessionID = sessionID
	e.routineName = routine.Name
	e.startTime = now
	e.defaultRest = routine.RestTimeWorking
	if e.defaultRest <= 0 {
		e.defaultRest = e.opts.DefaultRest
	}
	e.exercises = slots
	e.finished = false

	e.startTicker()
	e.log.Info("session started", "session_id", sessionID, "routine", routine.Name, "exercises", len(slots))
	return sessionID, nil
}

// Resume re-attaches the engine to an incomplete session: logged sets are
// reloaded and elapsed time continues from the stored start time.
func (e *Engine) Resume(ctx context.Context, sessionID int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.sessionID != 0 {
		return ErrSessionActive
	}

	session, err := e.store.FindSession(ctx, sessionID)
	if err != nil {
		e.ev.Error.Notify("session not found")
		return fmt.Errorf("resuming session: %w", err)
	}
	if session.Completed {
		return fmt.Errorf("resuming session %d: already completed", sessionID)
	}

	var slots []ExerciseSlot
	e.defaultRest = e.opts.DefaultRest
	if session.RoutineID != nil {
		if routine, rerr := e.store.FindRoutine(ctx, *session.RoutineID); rerr == nil {
			if routine.RestTimeWorking > 0 {
				e.defaultRest = routine.RestTimeWorking
			}
			slots, err = e.buildSlots(ctx, routine.ID)
			if err != nil {
				return err
			}
		}
	}

	sets, err := e.store.SetsBySession(ctx, sessionID)
	if err != nil {
		e.ev.Error.Notify("could not load session sets")
		return fmt.Errorf("resuming session: %w", err)
	}
	slots, err = e.distributeSets(ctx, slots, sets)
	if err != nil {
		return err
	}

	e.sessionID = sessionID
	e.routineName = session.RoutineName
	e.startTime = session.StartTime
	e.exercises = slots
	e.finished = false

	e.startTicker()
	e.log.Info("session resumed", "session_id", sessionID, "sets", len(sets))
	return nil
}

// buildSlots snapshots the routine's exercise plan and fetches suggestion
// history for each entry. Exercises missing from the catalog are skipped.
func (e *Engine) buildSlots(ctx context.Context, routineID int64) ([]ExerciseSlot, error) {
	links, err := e.store.ListRoutineExercises(ctx, routineID)
	if err != nil {
		return nil, fmt.Errorf("loading routine exercises: %w", err)
	}

	slots := make([]ExerciseSlot, 0, len(links))
	for _, link := range links {
		ex, err := e.store.FindExercise(ctx, link.ExerciseID)
		if err != nil {
			if e.isNotFound(err) {
				e.log.Warn("routine references missing exercise", "exercise_id", link.ExerciseID)
				continue
			}
			return nil, fmt.Errorf("loading exercise %d: %w", link.ExerciseID, err)
		}

		history, err := e.store.RecentCompletedSets(ctx, ex.ID, e.opts.HistoryLookback)
		if err != nil {
			return nil, fmt.Errorf("loading history for exercise %d: %w", ex.ID, err)
		}

		slots = append(slots, ExerciseSlot{
			Exercise:       *ex,
			PlannedSets:    link.PlannedSets,
			SupersetGroup:  link.SupersetGroup,
			RestOverride:   link.RestTimeOverride,
			HistoricalSets: history,
		})
	}
	return slots, nil
}

// distributeSets assigns previously logged sets back onto slots on resume.
// Sets of exercises no longer in the plan get their own appended slot.
func (e *Engine) distributeSets(ctx context.Context, slots []ExerciseSlot, sets []models.WorkoutSet) ([]ExerciseSlot, error) {
	index := make(map[int64]int, len(slots))
	for i, slot := range slots {
		index[slot.Exercise.ID] = i
	}

	for _, set := range sets {
		i, ok := index[set.ExerciseID]
		if !ok {
			slot := ExerciseSlot{PlannedSets: 1}
			if ex, err := e.store.FindExercise(ctx, set.ExerciseID); err == nil {
				slot.Exercise = *ex
			} else {
				// Exercise deleted since; rebuild a shell from the snapshot.
				slot.Exercise = models.Exercise{ID: set.ExerciseID, Name: set.ExerciseName}
			}
			if history, err := e.store.RecentCompletedSets(ctx, set.ExerciseID, e.opts.HistoryLookback); err == nil {
				slot.HistoricalSets = history
			}
			slots = append(slots, slot)
			i = len(slots) - 1
			index[set.ExerciseID] = i
		}
		slots[i].Sets = append(slots[i].Sets, set)
	}
	return slots, nil
}

// AddSet appends a set to the addressed exercise. The first set of an
// exercise defaults to a warmup, later ones to working sets; weight and reps
// seed from the most recent historical set, and unilateral exercises default
// to the left side. Returns the persisted set's ID.
func (e *Engine) AddSet(ctx context.Context, exerciseIndex int) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.sessionID == 0 {
		return 0, ErrNoSession
	}
	slot, err := e.slot(exerciseIndex)
	if err != nil {
		return 0, err
	}

	set := models.WorkoutSet{
		SessionID:    e.sessionID,
		ExerciseID:   slot.Exercise.ID,
		ExerciseName: slot.Exercise.Name,
		SetNumber:    len(slot.Sets) + 1,
		SetType:      models.SetWorking,
	}
	if len(slot.Sets) == 0 {
		set.SetType = models.SetWarmup
	}
	if len(slot.HistoricalSets) > 0 {
		last := slot.HistoricalSets[0]
		set.Weight = last.Weight
		set.Reps = last.Reps
	}
	if slot.Exercise.Unilateral {
		side := models.SideLeft
		set.Side = &side
	}
	if slot.OriginalExerciseID != nil {
		set.OriginalExerciseID = slot.OriginalExerciseID
		set.Swapped = true
	}

	setID, err := e.store.InsertSet(ctx, &set)
	if err != nil {
		e.ev.Error.Notify("could not save set")
		return 0, fmt.Errorf("inserting set: %w", err)
	}
	slot.Sets = append(slot.Sets, set)
	return setID, nil
}

// SetUpdate carries replacement values for a set's measurement fields.
// Values are replaced, not merged: a nil field clears the stored value.
type SetUpdate struct {
	Weight *float64
	Reps   *int
	RPE    *int
}

// UpdateSet replaces the addressed set's measurement fields. Set type, number
// and completion state are untouched. Values are not range-validated.
func (e *Engine) UpdateSet(ctx context.Context, exerciseIndex, setIndex int, upd SetUpdate) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	set, err := e.set(exerciseIndex, setIndex)
	if err != nil {
		return err
	}

	updated := *set
	updated.Weight = upd.Weight
	updated.Reps = upd.Reps
	updated.RPE = upd.RPE

	if err := e.store.UpdateSet(ctx, &updated); err != nil {
		e.ev.Error.Notify("could not save set")
		return fmt.Errorf("updating set: %w", err)
	}
	*set = updated
	return nil
}

// CompleteSet marks the set done, restarts the rest countdown and emits
// SetCompleted. Completing an already-completed set overwrites its
// completion timestamp.
func (e *Engine) CompleteSet(ctx context.Context, exerciseIndex, setIndex int) error {
	e.mu.Lock()

	set, err := e.set(exerciseIndex, setIndex)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	slot := &e.exercises[exerciseIndex]

	now := e.opts.Clock().UnixMilli()
	updated := *set
	updated.Completed = true
	updated.CompletedAt = &now

	if err := e.store.UpdateSet(ctx, &updated); err != nil {
		e.mu.Unlock()
		e.ev.Error.Notify("could not save set")
		return fmt.Errorf("completing set: %w", err)
	}
	*set = updated

	rest := e.defaultRest
	if slot.RestOverride != nil {
		rest = *slot.RestOverride
	}
	e.restRemaining = rest
	e.restRunning = true

	setID := set.ID
	e.mu.Unlock()

	e.ev.SetCompleted.Notify(setID)
	return nil
}

// SetSetType reassigns the set's type tag. No renumbering occurs.
func (e *Engine) SetSetType(ctx context.Context, exerciseIndex, setIndex int, t models.SetType) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !t.Valid() {
		return fmt.Errorf("workout: unknown set type %q", t)
	}
	set, err := e.set(exerciseIndex, setIndex)
	if err != nil {
		return err
	}

	updated := *set
	updated.SetType = t
	if err := e.store.UpdateSet(ctx, &updated); err != nil {
		e.ev.Error.Notify("could not save set")
		return fmt.Errorf("updating set type: %w", err)
	}
	*set = updated
	return nil
}

// DeleteSet removes the addressed set and renumbers the exercise's remaining
// sets so set numbers stay contiguous from 1 in original relative order.
func (e *Engine) DeleteSet(ctx context.Context, exerciseIndex, setIndex int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	set, err := e.set(exerciseIndex, setIndex)
	if err != nil {
		return err
	}
	slot := &e.exercises[exerciseIndex]

	if err := e.store.DeleteSet(ctx, set.ID); err != nil {
		e.ev.Error.Notify("could not delete set")
		return fmt.Errorf("deleting set: %w", err)
	}

	slot.Sets = append(slot.Sets[:setIndex], slot.Sets[setIndex+1:]...)
	for i := range slot.Sets {
		if slot.Sets[i].SetNumber == i+1 {
			continue
		}
		slot.Sets[i].SetNumber = i + 1
		if err := e.store.UpdateSet(ctx, &slot.Sets[i]); err != nil {
			e.ev.Error.Notify("could not renumber sets")
			return fmt.Errorf("renumbering set %d: %w", slot.Sets[i].ID, err)
		}
	}
	return nil
}

// SwapExercise substitutes the addressed slot's exercise mid-workout. Sets
// added afterwards carry the original exercise reference and a swapped flag.
func (e *Engine) SwapExercise(ctx context.Context, exerciseIndex int, newExerciseID int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	slot, err := e.slot(exerciseIndex)
	if err != nil {
		return err
	}

	ex, err := e.store.FindExercise(ctx, newExerciseID)
	if err != nil {
		e.ev.Error.Notify("exercise not found")
		return fmt.Errorf("swapping exercise: %w", err)
	}

	history, err := e.store.RecentCompletedSets(ctx, newExerciseID, e.opts.HistoryLookback)
	if err != nil {
		return fmt.Errorf("loading history for exercise %d: %w", newExerciseID, err)
	}

	if slot.OriginalExerciseID == nil {
		original := slot.Exercise.ID
		slot.OriginalExerciseID = &original
	}
	slot.Exercise = *ex
	slot.HistoricalSets = history
	return nil
}

// Finish finalizes the session: end time, total duration, comment, completed
// flag. Both timers stop and WorkoutFinished fires once. Finishing an
// already-finished session is a no-op; a missing session row emits an Error
// event and leaves the caller unharmed.
func (e *Engine) Finish(ctx context.Context, comment string) error {
	e.mu.Lock()

	if e.sessionID == 0 {
		e.mu.Unlock()
		return ErrNoSession
	}
	if e.finished {
		e.mu.Unlock()
		return nil
	}

	session, err := e.store.FindSession(ctx, e.sessionID)
	if err != nil {
		e.mu.Unlock()
		e.ev.Error.Notify("session not found")
		return nil
	}
	if session.Completed {
		e.finished = true
		e.stopTickerLocked()
		e.mu.Unlock()
		return nil
	}

	end := e.opts.Clock().UnixMilli()
	duration := end - session.StartTime
	session.EndTime = &end
	session.TotalDuration = &duration
	session.Comment = comment
	session.Completed = true

	if err := e.store.UpdateSession(ctx, session); err != nil {
		e.mu.Unlock()
		e.ev.Error.Notify("could not finish session")
		return fmt.Errorf("finishing session: %w", err)
	}

	e.finished = true
	e.restRunning = false
	e.restRemaining = 0
	e.stopTickerLocked()
	sessionID := e.sessionID
	e.mu.Unlock()

	e.log.Info("session finished", "session_id", sessionID, "duration_ms", duration)
	e.ev.WorkoutFinished.Notify(sessionID)
	return nil
}

// Close stops both timers without finishing the session. The durable record
// stays incomplete and can be resumed later.
func (e *Engine) Close() {
	e.mu.Lock()
	e.stopTickerLocked()
	e.mu.Unlock()
	e.wg.Wait()
}

func (e *Engine) slot(exerciseIndex int) (*ExerciseSlot, error) {
	if exerciseIndex < 0 || exerciseIndex >= len(e.exercises) {
		return nil, &InvalidIndexError{What: "exercise", Index: exerciseIndex, Count: len(e.exercises)}
	}
	return &e.exercises[exerciseIndex], nil
}

func (e *Engine) set(exerciseIndex, setIndex int) (*models.WorkoutSet, error) {
	if e.sessionID == 0 {
		return nil, ErrNoSession
	}
	slot, err := e.slot(exerciseIndex)
	if err != nil {
		return nil, err
	}
	if setIndex < 0 || setIndex >= len(slot.Sets) {
		return nil, &InvalidIndexError{What: "set", Index: setIndex, Count: len(slot.Sets)}
	}
	return &slot.Sets[setIndex], nil
}
