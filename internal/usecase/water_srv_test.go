package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func TestWaterLifecycle(t *testing.T) {
	clock := newClock(time.Date(2025, 2, 1, 7, 0, 0, 0, time.UTC))
	svc := NewWaterService(newFakes(clock).water, testConfig(), clock.Now, zap.NewNop())
	ctx := context.Background()
	userID := uuid.New()

	if _, err := svc.Status(ctx, userID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Status() without goal error = %v, want ErrNotFound", err)
	}
	if _, err := svc.SetGoal(ctx, userID, 0); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("SetGoal(0) error = %v, want ErrInvalidRequest", err)
	}
	if _, err := svc.SetGoal(ctx, userID, 2000); err != nil {
		t.Fatal(err)
	}

	for _, ml := range []int{500, 700, 1200} {
		if _, err := svc.LogIntake(ctx, userID, ml); err != nil {
			t.Fatal(err)
		}
	}

	status, err := svc.Status(ctx, userID)
	if err != nil {
		t.Fatal(err)
	}
	if status.TotalIntakeML != 2400 || status.RemainingML != 0 {
		t.Errorf("status = %+v, want total 2400 and remaining clamped to 0", status)
	}

	if err := svc.Reset(ctx, userID); err != nil {
		t.Fatal(err)
	}
	status, _ = svc.Status(ctx, userID)
	if status.TotalIntakeML != 0 || status.RemainingML != 2000 {
		t.Errorf("status after reset = %+v, want empty day", status)
	}

	clock.Advance(24 * time.Hour)
	status, _ = svc.Status(ctx, userID)
	if status.Date != "2025-02-02" {
		t.Errorf("date = %s, want next day", status.Date)
	}
}
