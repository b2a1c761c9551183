package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"heartcoach/internal/dto/request"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type fakeUploader struct {
	name string
	data []byte
	err  error
}

func (u *fakeUploader) Upload(_ context.Context, name, _ string, data []byte) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	u.name = name
	u.data = data
	return "exports/" + name, nil
}

func intPtr(v int) *int { return &v }

func TestVitalRecordRequiresMetric(t *testing.T) {
	clock := newClock(time.Date(2025, 2, 1, 7, 0, 0, 0, time.UTC))
	svc := NewVitalService(newFakes(clock).vitals, nil, testConfig(), clock.Now, zap.NewNop())

	_, err := svc.Record(context.Background(), uuid.New(), &request.CreateVitalRequest{ReadingTime: "morning"})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("error = %v, want ErrInvalidRequest", err)
	}
}

func TestVitalExportCSV(t *testing.T) {
	clock := newClock(time.Date(2025, 2, 1, 7, 0, 0, 0, time.UTC))
	f := newFakes(clock)
	uploader := &fakeUploader{}
	svc := NewVitalService(f.vitals, uploader, testConfig(), clock.Now, zap.NewNop())
	ctx := context.Background()
	userID := uuid.New()

	for i, hr := range []int{72, 80, 64} {
		_, err := svc.Record(ctx, userID, &request.CreateVitalRequest{HeartRate: intPtr(hr), ReadingTime: "morning"})
		if err != nil {
			t.Fatal(err)
		}
		if i < 2 {
			clock.Advance(24 * time.Hour)
		}
	}

	export, err := svc.ExportCSV(ctx, userID, &request.ExportVitalsRequest{
		Start: strPtr("2025-02-01"),
		End:   strPtr("2025-02-02"),
	})
	if err != nil {
		t.Fatalf("ExportCSV() error = %v", err)
	}
	if export.Rows != 2 {
		t.Errorf("rows = %d, want 2 (end date inclusive)", export.Rows)
	}
	lines := strings.Split(strings.TrimSpace(string(export.Data)), "\n")
	if lines[0] != "recorded_at,reading_time,systolic_bp,diastolic_bp,heart_rate,spo2,weight" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "2025-02-01T07:00:00Z,morning,,,72,," {
		t.Errorf("first row = %q", lines[1])
	}
	if export.Key == "" || !strings.HasPrefix(uploader.name, userID.String()+"/") {
		t.Errorf("key = %q, uploaded as %q, want archived under user id", export.Key, uploader.name)
	}

	if _, err := svc.ExportCSV(ctx, uuid.New(), &request.ExportVitalsRequest{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("empty export error = %v, want ErrNotFound", err)
	}

	uploader.err = errBoom
	export, err = svc.ExportCSV(ctx, userID, &request.ExportVitalsRequest{MaxRows: 1})
	if err != nil {
		t.Fatalf("ExportCSV() with failing archive error = %v, want nil", err)
	}
	if export.Key != "" || export.Rows != 1 {
		t.Errorf("export = %+v, want one row and no key", export)
	}
}

func TestVitalUpdateAndDelete(t *testing.T) {
	clock := newClock(time.Date(2025, 2, 1, 7, 0, 0, 0, time.UTC))
	svc := NewVitalService(newFakes(clock).vitals, nil, testConfig(), clock.Now, zap.NewNop())
	ctx := context.Background()
	userID := uuid.New()

	v, err := svc.Record(ctx, userID, &request.CreateVitalRequest{SpO2: intPtr(97), ReadingTime: "night"})
	if err != nil {
		t.Fatal(err)
	}
	id := uuid.MustParse(v.ID)

	updated, err := svc.Update(ctx, userID, id, &request.UpdateVitalRequest{HeartRate: intPtr(70)})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if *updated.SpO2 != 97 || *updated.HeartRate != 70 {
		t.Errorf("updated = %+v, want partial update", updated)
	}

	page, err := svc.ListMine(ctx, userID, request.PaginatedRequest{Page: 1, PerPage: 10})
	if err != nil || page.Pagination.Total != 1 || len(page.Data) != 1 {
		t.Errorf("ListMine() = %+v, %v", page, err)
	}

	if err := svc.Delete(ctx, uuid.New(), id); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign Delete() error = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(ctx, userID, id); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
}
