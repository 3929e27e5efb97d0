package inmemory

import (
	"context"
	"fmt"
	"testing"

	"github.com/walletwise/insights/internal/jobs"
)

func TestStoreSaveAndGet(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	job := &jobs.AnalyzeUserJob{JobID: "j1", UserID: "u1", WindowDays: 30, Status: jobs.JobStatusPending}
	if err := s.SaveJob(ctx, job); err != nil {
		t.Fatalf("SaveJob: %v", err)
	}

	got, err := s.GetJob(ctx, "j1")
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if got.UserID != "u1" || got.Status != jobs.JobStatusPending {
		t.Errorf("GetJob = %+v", got)
	}

	// The store hands out copies; mutating a result must not leak back.
	got.Status = jobs.JobStatusFailed
	again, _ := s.GetJob(ctx, "j1")
	if again.Status != jobs.JobStatusPending {
		t.Errorf("Status = %s after caller mutation, want pending", again.Status)
	}

	if err := s.SaveJob(ctx, &jobs.AnalyzeUserJob{}); err == nil {
		t.Error("SaveJob without ID = nil, want error")
	}
	if _, err := s.GetJob(ctx, "missing"); err == nil {
		t.Error("GetJob(missing) = nil, want error")
	}
}

func TestStoreListJobsFilter(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		status := jobs.JobStatusPending
		if i%2 == 1 {
			status = jobs.JobStatusCompleted
		}
		user := "u1"
		if i == 3 {
			user = "u2"
		}
		err := s.SaveJob(ctx, &jobs.AnalyzeUserJob{
			JobID:  fmt.Sprintf("j%d", i),
			UserID: user,
			Status: status,
		})
		if err != nil {
			t.Fatalf("SaveJob: %v", err)
		}
	}

	byUser, err := s.ListJobs(ctx, jobs.JobFilter{UserID: "u1"})
	if err != nil {
		t.Fatalf("ListJobs: %v", err)
	}
	if len(byUser) != 3 {
		t.Errorf("user filter returned %d jobs, want 3", len(byUser))
	}

	byStatus, _ := s.ListJobs(ctx, jobs.JobFilter{Status: jobs.JobStatusCompleted})
	if len(byStatus) != 2 {
		t.Errorf("status filter returned %d jobs, want 2", len(byStatus))
	}

	limited, _ := s.ListJobs(ctx, jobs.JobFilter{Limit: 2})
	if len(limited) != 2 {
		t.Errorf("limit returned %d jobs, want 2", len(limited))
	}

	offset, _ := s.ListJobs(ctx, jobs.JobFilter{Offset: 10})
	if len(offset) != 0 {
		t.Errorf("out-of-range offset returned %d jobs, want 0", len(offset))
	}
}

func TestStoreUpdateJobStatus(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	job := &jobs.AnalyzeUserJob{JobID: "j1", UserID: "u1", Status: jobs.JobStatusRunning}
	if err := s.SaveJob(ctx, job); err != nil {
		t.Fatalf("SaveJob: %v", err)
	}

	if err := s.UpdateJobStatus(ctx, "j1", jobs.JobStatusFailed, "boom"); err != nil {
		t.Fatalf("UpdateJobStatus: %v", err)
	}
	got, _ := s.GetJob(ctx, "j1")
	if got.Status != jobs.JobStatusFailed || got.Error != "boom" {
		t.Errorf("job = %+v, want failed with error", got)
	}

	if err := s.UpdateJobStatus(ctx, "missing", jobs.JobStatusFailed, ""); err == nil {
		t.Error("UpdateJobStatus(missing) = nil, want error")
	}
}
