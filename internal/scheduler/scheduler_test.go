package scheduler

import (
	"errors"
	"testing"
)

func TestAddJobValidation(t *testing.T) {
	svc, err := New()
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	defer svc.Stop()

	tests := []struct {
		name     string
		jobName  string
		cronExpr string
		wantErr  error
	}{
		{name: "empty_name", jobName: "   ", cronExpr: "*/15 * * * *", wantErr: ErrEmptyJobName},
		{name: "empty_cron", jobName: "theme_refresh", cronExpr: "", wantErr: ErrEmptyCronExpr},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := svc.AddJob(test.jobName, test.cronExpr, func() {})
			if !errors.Is(err, test.wantErr) {
				t.Fatalf("AddJob error = %v, want %v", err, test.wantErr)
			}
		})
	}
}

func TestAddJobRejectsInvalidCron(t *testing.T) {
	svc, err := New()
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	defer svc.Stop()

	if _, err := svc.AddJob("theme_refresh", "not a cron", func() {}); err == nil {
		t.Fatal("AddJob accepted an invalid cron expression")
	}
}

func TestAddJobAcceptsValidCron(t *testing.T) {
	svc, err := New()
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	defer svc.Stop()

	if _, err := svc.AddJob("theme_refresh", "*/30 * * * *", func() {}); err != nil {
		t.Fatalf("AddJob returned error for valid cron: %v", err)
	}
}
