package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"heartcoach/internal/dto/request"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newMedicineFixture() (MedicineService, *fakes) {
	clock := newClock(time.Date(2025, 3, 1, 22, 30, 0, 0, time.UTC))
	f := newFakes(clock)
	return NewMedicineService(f.repo, testConfig(), clock.Now, zap.NewNop()), f
}

func TestMedicineCreateDefaultsStartDate(t *testing.T) {
	svc, _ := newMedicineFixture()

	got, err := svc.Create(context.Background(), uuid.New(), &request.CreateMedicineRequest{
		Name:      " Aspirin ",
		Schedules: []request.ScheduleRequest{{TimeOfDay: "8:00"}, {TimeOfDay: "20:30"}},
	})
	if err == nil {
		t.Fatal("Create() accepted an invalid time of day")
	}

	got, err = svc.Create(context.Background(), uuid.New(), &request.CreateMedicineRequest{
		Name:      " Aspirin ",
		Notes:     strPtr("<script>x</script>with food"),
		Schedules: []request.ScheduleRequest{{TimeOfDay: "08:00"}, {TimeOfDay: "20:30:00"}},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if got.Name != "Aspirin" {
		t.Errorf("name = %q, want trimmed", got.Name)
	}
	if got.StartDate != "2025-03-01" {
		t.Errorf("start_date = %s, want today 2025-03-01", got.StartDate)
	}
	if got.Notes == nil || *got.Notes != "with food" {
		t.Errorf("notes = %v, want sanitized", got.Notes)
	}
	if len(got.Schedules) != 2 || got.Schedules[0].TimeOfDay != "08:00:00" {
		t.Errorf("schedules = %+v, want normalized HH:MM:SS", got.Schedules)
	}
}

func TestMedicineCreateRejectsInvertedWindow(t *testing.T) {
	svc, _ := newMedicineFixture()

	_, err := svc.Create(context.Background(), uuid.New(), &request.CreateMedicineRequest{
		Name:      "Aspirin",
		StartDate: strPtr("2025-03-10"),
		EndDate:   strPtr("2025-03-09"),
		Schedules: []request.ScheduleRequest{{TimeOfDay: "08:00"}},
	})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("error = %v, want ErrInvalidRequest", err)
	}
}

func TestMedicineUpdateAndSchedules(t *testing.T) {
	svc, _ := newMedicineFixture()
	ctx := context.Background()
	userID := uuid.New()

	created, err := svc.Create(ctx, userID, &request.CreateMedicineRequest{
		Name:      "Aspirin",
		Schedules: []request.ScheduleRequest{{TimeOfDay: "08:00"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	id := uuid.MustParse(created.ID)

	// scalar update keeps schedules
	updated, err := svc.Update(ctx, userID, id, &request.UpdateMedicineRequest{EndDate: strPtr("2025-03-31")})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.EndDate == nil || *updated.EndDate != "2025-03-31" || len(updated.Schedules) != 1 {
		t.Errorf("updated = %+v, want end date set and schedule kept", updated)
	}

	// schedules replaced when present
	replacement := []request.ScheduleRequest{{TimeOfDay: "07:00"}, {TimeOfDay: "19:00"}}
	updated, err = svc.Update(ctx, userID, id, &request.UpdateMedicineRequest{Schedules: &replacement})
	if err != nil {
		t.Fatal(err)
	}
	if len(updated.Schedules) != 2 || updated.Schedules[0].TimeOfDay != "07:00:00" {
		t.Errorf("schedules = %+v, want replaced", updated.Schedules)
	}

	// single schedule update returns the parent medicine
	scheduleID := uuid.MustParse(updated.Schedules[1].ID)
	parent, err := svc.UpdateSchedule(ctx, userID, scheduleID, &request.UpdateScheduleRequest{Dosage: strPtr("500mg")})
	if err != nil {
		t.Fatalf("UpdateSchedule() error = %v", err)
	}
	if parent.ID != created.ID || parent.Schedules[1].Dosage == nil || *parent.Schedules[1].Dosage != "500mg" {
		t.Errorf("parent = %+v, want medicine with updated dosage", parent)
	}

	if _, err := svc.UpdateSchedule(ctx, uuid.New(), scheduleID, &request.UpdateScheduleRequest{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign UpdateSchedule() error = %v, want ErrNotFound", err)
	}
	if _, err := svc.Update(ctx, userID, id, &request.UpdateMedicineRequest{StartDate: strPtr("2025-04-01")}); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("start after end error = %v, want ErrInvalidRequest", err)
	}
}

func TestMedicineDelete(t *testing.T) {
	svc, f := newMedicineFixture()
	ctx := context.Background()
	userID := uuid.New()

	created, err := svc.Create(ctx, userID, &request.CreateMedicineRequest{
		Name:      "Aspirin",
		Schedules: []request.ScheduleRequest{{TimeOfDay: "08:00"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	id := uuid.MustParse(created.ID)

	if err := svc.Delete(ctx, uuid.New(), id); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign Delete() error = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(ctx, userID, id); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(f.schedules.schedules) != 0 {
		t.Errorf("schedules left = %d, want 0", len(f.schedules.schedules))
	}
	if _, err := svc.Get(ctx, userID, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
	if _, err := svc.ListSchedules(ctx, userID, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("ListSchedules() after delete error = %v, want ErrNotFound", err)
	}
}
