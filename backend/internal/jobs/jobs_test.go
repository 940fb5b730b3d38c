package jobs

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"helpdesk-system/backend/internal/dto"
)

type fakeHelpdesks struct {
	list    []dto.HelpdeskResponse
	listErr error
	failing map[int]bool
	cleared []int
}

func (f *fakeHelpdesks) List(_ context.Context, activeOnly bool) ([]dto.HelpdeskResponse, error) {
	if activeOnly {
		return nil, errors.New("cleanup must include deleted helpdesks")
	}
	return f.list, f.listErr
}

func (f *fakeHelpdesks) ForceCheckoutAll(_ context.Context, id int) (*dto.ForceCheckoutResponse, error) {
	f.cleared = append(f.cleared, id)
	if f.failing[id] {
		return nil, errors.New("deadlock detected")
	}
	return &dto.ForceCheckoutResponse{HelpdeskID: id, CheckInsClosed: 1, ItemsRemoved: 2}, nil
}

func TestCleanupJob_SweepsEveryHelpdesk(t *testing.T) {
	f := &fakeHelpdesks{list: []dto.HelpdeskResponse{{HelpdeskID: 1}, {HelpdeskID: 2}, {HelpdeskID: 3, IsDeleted: true}}}
	job := NewCleanupJob(f, zap.NewNop())

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run should succeed: %v", err)
	}
	if len(f.cleared) != 3 {
		t.Errorf("expected 3 helpdesks cleared, got %v", f.cleared)
	}
}

func TestCleanupJob_ContinuesPastFailures(t *testing.T) {
	f := &fakeHelpdesks{
		list:    []dto.HelpdeskResponse{{HelpdeskID: 1}, {HelpdeskID: 2}, {HelpdeskID: 3}},
		failing: map[int]bool{2: true},
	}
	job := NewCleanupJob(f, zap.NewNop())

	err := job.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "1 of 3") {
		t.Errorf("expected a failure summary, got %v", err)
	}
	if len(f.cleared) != 3 || f.cleared[2] != 3 {
		t.Errorf("helpdesk 3 must still be cleared after 2 fails, got %v", f.cleared)
	}
}

func TestCleanupJob_ListError(t *testing.T) {
	job := NewCleanupJob(&fakeHelpdesks{listErr: errors.New("db down")}, zap.NewNop())

	if err := job.Run(context.Background()); err == nil {
		t.Error("expected list error to be returned")
	}
}

type fakeExporter struct {
	err error
}

func (f *fakeExporter) ExportZip(_ context.Context) (*bytes.Buffer, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	return bytes.NewBufferString("PK"), "databaseexport_20240101_000000.zip", nil
}

func TestExportJob(t *testing.T) {
	if err := NewExportJob(&fakeExporter{}, zap.NewNop()).Run(context.Background()); err != nil {
		t.Errorf("Run should succeed: %v", err)
	}
	if err := NewExportJob(&fakeExporter{err: errors.New("disk full")}, zap.NewNop()).Run(context.Background()); err == nil {
		t.Error("expected export error")
	}
}

type countingJob struct {
	runs atomic.Int32
}

func (j *countingJob) Name() string { return "counting" }

func (j *countingJob) Run(context.Context) error {
	j.runs.Add(1)
	return nil
}

func TestScheduler_RunsJob(t *testing.T) {
	s := NewScheduler(zap.NewNop())
	job := &countingJob{}
	if err := s.AddJob("* * * * * *", job); err != nil {
		t.Fatalf("AddJob failed: %v", err)
	}

	s.Start()
	deadline := time.Now().Add(3 * time.Second)
	for job.runs.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	s.Stop(context.Background())

	if job.runs.Load() == 0 {
		t.Error("job should have run within 3 seconds")
	}
}

type panickingJob struct{ runs atomic.Int32 }

func (j *panickingJob) Name() string { return "panicking" }

func (j *panickingJob) Run(context.Context) error {
	j.runs.Add(1)
	panic("nil map write")
}

func TestScheduler_RecoversPanickingJob(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	s := NewScheduler(zap.New(core))
	job := &panickingJob{}
	if err := s.AddJob("* * * * * *", job); err != nil {
		t.Fatalf("AddJob failed: %v", err)
	}

	s.Start()
	deadline := time.Now().Add(4 * time.Second)
	for job.runs.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	s.Stop(context.Background())

	if job.runs.Load() < 2 {
		t.Fatalf("scheduler should keep running after a panic, got %d runs", job.runs.Load())
	}
	if logs.FilterMessage("panic").Len() == 0 {
		t.Error("recovered panic should be logged")
	}
}

func TestScheduler_RejectsBadSpec(t *testing.T) {
	s := NewScheduler(zap.NewNop())

	// five fields: the seconds field is required
	if err := s.AddJob("0 0 * * *", &countingJob{}); err == nil {
		t.Error("expected an error for a spec without seconds")
	}
}

func TestRunOnce_ReturnsJobError(t *testing.T) {
	job := NewCleanupJob(&fakeHelpdesks{listErr: errors.New("db down")}, zap.NewNop())

	if err := RunOnce(context.Background(), job, zap.NewNop()); err == nil {
		t.Error("expected the job error")
	}
}
