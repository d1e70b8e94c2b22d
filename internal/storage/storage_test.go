package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/claude/fittrack/internal/models"
)

func openTest(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func insertTestExercise(t *testing.T, db *DB, name string) int64 {
	t.Helper()
	id, err := db.InsertExercise(context.Background(), &models.Exercise{
		Name:         name,
		Category:     models.CategoryBarbell,
		TrackingType: models.TrackWeightReps,
		MainMuscle:   models.MuscleChest,
	})
	if err != nil {
		t.Fatalf("inserting exercise: %v", err)
	}
	return id
}

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

// TestExerciseRoundTrip verifies insert, find, update and delete.
func TestExerciseRoundTrip(t *testing.T) {
	db := openTest(t)
	ctx := context.Background()

	id, err := db.InsertExercise(ctx, &models.Exercise{
		Name:             "Bench Press",
		Category:         models.CategoryBarbell,
		TrackingType:     models.TrackWeightReps,
		MainMuscle:       models.MuscleChest,
		SecondaryMuscles: []models.MuscleGroup{models.MuscleTriceps},
		VolumeMultiplier: 1,
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	ex, err := db.FindExercise(ctx, id)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if ex.Name != "Bench Press" {
		t.Errorf("name = %q, want Bench Press", ex.Name)
	}
	if len(ex.SecondaryMuscles) != 1 || ex.SecondaryMuscles[0] != models.MuscleTriceps {
		t.Errorf("secondary muscles = %v, want [triceps]", ex.SecondaryMuscles)
	}
	if ex.CreatedAt == 0 {
		t.Error("created_at not stamped")
	}

	ex.Name = "Paused Bench"
	if err := db.UpdateExercise(ctx, ex); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got, _ := db.FindExercise(ctx, id); got.Name != "Paused Bench" {
		t.Errorf("name after update = %q", got.Name)
	}

	if err := db.DeleteExercise(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := db.FindExercise(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("find after delete: err = %v, want ErrNotFound", err)
	}
}

// TestListExercisesFilters verifies category, muscle, substring and custom filters.
func TestListExercisesFilters(t *testing.T) {
	db := openTest(t)
	ctx := context.Background()

	_, err := db.InsertExercise(ctx, &models.Exercise{
		Name: "Back Squat", Category: models.CategoryBarbell,
		TrackingType: models.TrackWeightReps, MainMuscle: models.MuscleQuads,
	})
	if err != nil {
		t.Fatal(err)
	}
	_, err = db.InsertExercise(ctx, &models.Exercise{
		Name: "Leg Press", Category: models.CategoryMachine,
		TrackingType: models.TrackWeightReps, MainMuscle: models.MuscleQuads,
		IsCustom: true,
	})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		filter ExerciseFilter
		want   []string
	}{
		{"no filter", ExerciseFilter{}, []string{"Back Squat", "Leg Press"}},
		{"by category", ExerciseFilter{Category: models.CategoryBarbell}, []string{"Back Squat"}},
		{"by muscle", ExerciseFilter{Muscle: models.MuscleQuads}, []string{"Back Squat", "Leg Press"}},
		{"by substring", ExerciseFilter{Query: "press"}, []string{"Leg Press"}},
		{"custom only", ExerciseFilter{CustomOnly: true}, []string{"Leg Press"}},
		{"no match", ExerciseFilter{Query: "deadlift"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.ListExercises(ctx, tt.filter)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d exercises, want %d", len(got), len(tt.want))
			}
			for i, name := range tt.want {
				if got[i].Name != name {
					t.Errorf("exercise[%d] = %q, want %q", i, got[i].Name, name)
				}
			}
		})
	}
}

// TestRoutineTransactionalLinks verifies that exercise links are replaced
// atomically with the routine row.
func TestRoutineTransactionalLinks(t *testing.T) {
	db := openTest(t)
	ctx := context.Background()

	bench := insertTestExercise(t, db, "Bench Press")
	squat := insertTestExercise(t, db, "Back Squat")

	id, err := db.InsertRoutine(ctx, &models.Routine{
		Name:            "Full Body",
		AssignedDays:    []models.Weekday{models.Monday, models.Thursday},
		RestTimeWorking: 120,
		RestTimeWarmup:  60,
	}, []models.RoutineExercise{
		{ExerciseID: bench, OrderIndex: 0, PlannedSets: 3},
		{ExerciseID: squat, OrderIndex: 1, PlannedSets: 5},
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	routine, err := db.FindRoutine(ctx, id)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(routine.AssignedDays) != 2 {
		t.Errorf("assigned days = %v, want 2 entries", routine.AssignedDays)
	}

	links, err := db.ListRoutineExercises(ctx, id)
	if err != nil {
		t.Fatalf("links: %v", err)
	}
	if len(links) != 2 || links[0].ExerciseID != bench || links[1].ExerciseID != squat {
		t.Fatalf("links = %+v, want bench then squat", links)
	}

	// Update replaces the link set.
	routine.Name = "Upper Body"
	err = db.UpdateRoutine(ctx, routine, []models.RoutineExercise{
		{ExerciseID: bench, OrderIndex: 0, PlannedSets: 4},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	links, _ = db.ListRoutineExercises(ctx, id)
	if len(links) != 1 || links[0].PlannedSets != 4 {
		t.Errorf("links after update = %+v, want single bench with 4 sets", links)
	}

	// Hard delete cascades to links.
	if err := db.DeleteRoutine(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	links, _ = db.ListRoutineExercises(ctx, id)
	if len(links) != 0 {
		t.Errorf("links after delete = %+v, want none", links)
	}
}

// TestArchiveRoutineHidesFromList verifies soft deletion via the archive flag.
func TestArchiveRoutineHidesFromList(t *testing.T) {
	db := openTest(t)
	ctx := context.Background()

	id, err := db.InsertRoutine(ctx, &models.Routine{Name: "Old Plan"}, nil)
	if err != nil {
		t.Fatal(err)
	}

	if err := db.ArchiveRoutine(ctx, id); err != nil {
		t.Fatalf("archive: %v", err)
	}

	routines, err := db.ListRoutines(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(routines) != 0 {
		t.Errorf("list after archive = %+v, want empty", routines)
	}

	// Archived routines are still findable by ID (sessions may reference them).
	if _, err := db.FindRoutine(ctx, id); err != nil {
		t.Errorf("find archived: %v", err)
	}
}

// TestActiveSession verifies that exactly incomplete sessions are reported.
func TestActiveSession(t *testing.T) {
	db := openTest(t)
	ctx := context.Background()

	if _, err := db.ActiveSession(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("empty db: err = %v, want ErrNotFound", err)
	}

	id, err := db.InsertSession(ctx, &models.TrainingSession{
		RoutineName: "Push Day",
		StartTime:   1000,
	})
	if err != nil {
		t.Fatal(err)
	}

	active, err := db.ActiveSession(ctx)
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if active.ID != id {
		t.Errorf("active ID = %d, want %d", active.ID, id)
	}

	end := int64(2000)
	duration := end - active.StartTime
	active.EndTime = &end
	active.TotalDuration = &duration
	active.Completed = true
	if err := db.UpdateSession(ctx, active); err != nil {
		t.Fatalf("update: %v", err)
	}

	if _, err := db.ActiveSession(ctx); !errors.Is(err, ErrNotFound) {
		t.Errorf("after completion: err = %v, want ErrNotFound", err)
	}
}

// TestSetRenumberPersistence verifies updated set numbers survive a reload.
func TestSetRenumberPersistence(t *testing.T) {
	db := openTest(t)
	ctx := context.Background()

	exID := insertTestExercise(t, db, "Bench Press")
	sessionID, err := db.InsertSession(ctx, &models.TrainingSession{RoutineName: "Push", StartTime: 1})
	if err != nil {
		t.Fatal(err)
	}

	var ids []int64
	for i := 1; i <= 3; i++ {
		id, err := db.InsertSet(ctx, &models.WorkoutSet{
			SessionID: sessionID, ExerciseID: exID, ExerciseName: "Bench Press",
			SetNumber: i, SetType: models.SetWorking,
		})
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, id)
	}

	// Delete the middle set and renumber the last one down.
	if err := db.DeleteSet(ctx, ids[1]); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := db.UpdateSet(ctx, &models.WorkoutSet{
		ID: ids[2], SessionID: sessionID, ExerciseID: exID, ExerciseName: "Bench Press",
		SetNumber: 2, SetType: models.SetWorking,
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	sets, err := db.SetsBySession(ctx, sessionID)
	if err != nil {
		t.Fatal(err)
	}
	if len(sets) != 2 {
		t.Fatalf("got %d sets, want 2", len(sets))
	}
	if sets[0].SetNumber != 1 || sets[1].SetNumber != 2 {
		t.Errorf("set numbers = %d,%d, want 1,2", sets[0].SetNumber, sets[1].SetNumber)
	}
}

// TestDeleteExerciseKeepsSetHistory verifies that removing a catalog entry
// leaves its logged sets in place, with the name snapshot intact.
func TestDeleteExerciseKeepsSetHistory(t *testing.T) {
	db := openTest(t)
	ctx := context.Background()

	exID := insertTestExercise(t, db, "Cable Fly")
	sessionID, err := db.InsertSession(ctx, &models.TrainingSession{RoutineName: "Push", StartTime: 1})
	if err != nil {
		t.Fatal(err)
	}
	completedAt := int64(1000)
	if _, err := db.InsertSet(ctx, &models.WorkoutSet{
		SessionID: sessionID, ExerciseID: exID, ExerciseName: "Cable Fly",
		SetNumber: 1, SetType: models.SetWorking, Weight: fptr(25), Reps: iptr(12),
		Completed: true, CompletedAt: &completedAt,
	}); err != nil {
		t.Fatal(err)
	}

	if err := db.DeleteExercise(ctx, exID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	sets, err := db.SetsBySession(ctx, sessionID)
	if err != nil {
		t.Fatal(err)
	}
	if len(sets) != 1 {
		t.Fatalf("got %d sets after exercise delete, want 1", len(sets))
	}
	if sets[0].ExerciseName != "Cable Fly" {
		t.Errorf("exercise_name = %q, want snapshot Cable Fly", sets[0].ExerciseName)
	}

	history, err := db.RecentCompletedSets(ctx, exID, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 {
		t.Errorf("got %d history sets, want 1", len(history))
	}
}

// TestRecentCompletedSets verifies ordering (newest completion first), the
// completed-only filter and the limit.
func TestRecentCompletedSets(t *testing.T) {
	db := openTest(t)
	ctx := context.Background()

	exID := insertTestExercise(t, db, "Bench Press")
	sessionID, err := db.InsertSession(ctx, &models.TrainingSession{RoutineName: "Push", StartTime: 1})
	if err != nil {
		t.Fatal(err)
	}

	insert := func(weight float64, completedAt *int64) {
		t.Helper()
		set := &models.WorkoutSet{
			SessionID: sessionID, ExerciseID: exID, ExerciseName: "Bench Press",
			SetNumber: 1, SetType: models.SetWorking, Weight: fptr(weight), Reps: iptr(5),
		}
		if completedAt != nil {
			set.Completed = true
			set.CompletedAt = completedAt
		}
		if _, err := db.InsertSet(ctx, set); err != nil {
			t.Fatal(err)
		}
	}

	t1, t2, t3 := int64(1000), int64(2000), int64(3000)
	insert(60, &t1)
	insert(80, &t3)
	insert(70, &t2)
	insert(100, nil) // incomplete, must never appear

	sets, err := db.RecentCompletedSets(ctx, exID, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(sets) != 2 {
		t.Fatalf("got %d sets, want 2", len(sets))
	}
	if *sets[0].Weight != 80 || *sets[1].Weight != 70 {
		t.Errorf("weights = %v,%v, want 80,70 (newest first)", *sets[0].Weight, *sets[1].Weight)
	}
}

// TestExerciseRecords verifies the personal-best aggregates.
func TestExerciseRecords(t *testing.T) {
	db := openTest(t)
	ctx := context.Background()

	exID := insertTestExercise(t, db, "Bench Press")
	s1, _ := db.InsertSession(ctx, &models.TrainingSession{RoutineName: "A", StartTime: 1})
	s2, _ := db.InsertSession(ctx, &models.TrainingSession{RoutineName: "B", StartTime: 2})

	now := int64(1000)
	for _, s := range []struct {
		session int64
		weight  float64
		reps    int
	}{
		{s1, 100, 5},
		{s1, 90, 12},
		{s2, 110, 3},
	} {
		_, err := db.InsertSet(ctx, &models.WorkoutSet{
			SessionID: s.session, ExerciseID: exID, ExerciseName: "Bench Press",
			SetNumber: 1, SetType: models.SetWorking,
			Weight: fptr(s.weight), Reps: iptr(s.reps),
			Completed: true, CompletedAt: &now,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	records, err := db.GetExerciseRecords(ctx, exID)
	if err != nil {
		t.Fatal(err)
	}
	if records.MaxWeight == nil || *records.MaxWeight != 110 {
		t.Errorf("max weight = %v, want 110", records.MaxWeight)
	}
	if records.MaxReps == nil || *records.MaxReps != 12 {
		t.Errorf("max reps = %v, want 12", records.MaxReps)
	}
	if records.SessionCount != 2 {
		t.Errorf("session count = %d, want 2", records.SessionCount)
	}
}

// TestSettingsLazyCreate verifies the defaults row appears on first read and
// updates persist.
func TestSettingsLazyCreate(t *testing.T) {
	db := openTest(t)
	ctx := context.Background()

	settings, err := db.GetSettings(ctx)
	if err != nil {
		t.Fatalf("first read: %v", err)
	}
	if settings.BarbellWeight != 20 {
		t.Errorf("barbell weight = %v, want 20", settings.BarbellWeight)
	}
	if len(settings.AvailablePlates) == 0 || len(settings.WarmupTemplate) != 3 {
		t.Errorf("defaults incomplete: %+v", settings)
	}

	settings.BarbellWeight = 15
	settings.UseMetric = false
	if err := db.SaveSettings(ctx, settings); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := db.GetSettings(ctx)
	if err != nil {
		t.Fatalf("second read: %v", err)
	}
	if got.BarbellWeight != 15 {
		t.Errorf("barbell weight after save = %v, want 15", got.BarbellWeight)
	}
	if got.UpdatedAt == 0 {
		t.Error("updated_at not stamped")
	}
}

// TestMeasurements verifies insert defaults and newest-first listing.
func TestMeasurements(t *testing.T) {
	db := openTest(t)
	ctx := context.Background()

	_, err := db.InsertMeasurement(ctx, &models.BodyMeasurement{Date: 1000, BodyWeight: 80})
	if err != nil {
		t.Fatal(err)
	}
	_, err = db.InsertMeasurement(ctx, &models.BodyMeasurement{Date: 2000, BodyWeight: 81, BodyFat: fptr(18.5)})
	if err != nil {
		t.Fatal(err)
	}

	list, err := db.ListMeasurements(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d measurements, want 2", len(list))
	}
	if list[0].BodyWeight != 81 {
		t.Errorf("first measurement weight = %v, want 81 (newest first)", list[0].BodyWeight)
	}
	if list[0].BodyFat == nil || *list[0].BodyFat != 18.5 {
		t.Errorf("body fat = %v, want 18.5", list[0].BodyFat)
	}
}

// TestSessionRoutineDeletedKeepsSnapshot verifies routine deletion nulls the
// reference but keeps the denormalized name.
func TestSessionRoutineDeletedKeepsSnapshot(t *testing.T) {
	db := openTest(t)
	ctx := context.Background()

	routineID, err := db.InsertRoutine(ctx, &models.Routine{Name: "Push Day"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	sessionID, err := db.InsertSession(ctx, &models.TrainingSession{
		RoutineID: &routineID, RoutineName: "Push Day", StartTime: 1,
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := db.DeleteRoutine(ctx, routineID); err != nil {
		t.Fatal(err)
	}

	session, err := db.FindSession(ctx, sessionID)
	if err != nil {
		t.Fatal(err)
	}
	if session.RoutineID != nil {
		t.Errorf("routine_id = %v, want nil after routine deletion", *session.RoutineID)
	}
	if session.RoutineName != "Push Day" {
		t.Errorf("routine_name = %q, want snapshot preserved", session.RoutineName)
	}
}
