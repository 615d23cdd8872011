package scheduler

import "testing"

func TestValidate(t *testing.T) {
	tests := []struct {
		spec    string
		wantErr bool
	}{
		{"0 8 * * *", false},
		{"*/5 * * * *", false},
		{"@daily", false},
		{"", true},
		{"not a cron", true},
		{"61 8 * * *", true},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			err := Validate(tt.spec)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%q) error = %v, wantErr %v", tt.spec, err, tt.wantErr)
			}
		})
	}
}

func TestStartRestartStop(t *testing.T) {
	s := New(func() {})

	if err := s.Start("invalid"); err == nil {
		t.Fatal("expected error for invalid expression")
	}
	if s.Spec() != "" {
		t.Errorf("spec after failed start = %q", s.Spec())
	}

	if err := s.Start("0 8 * * *"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if s.Spec() != "0 8 * * *" {
		t.Errorf("spec = %q", s.Spec())
	}

	// Restart with the same expression is a no-op.
	if err := s.Restart("0 8 * * *"); err != nil {
		t.Fatalf("Restart same: %v", err)
	}

	if err := s.Restart("0 9 * * *"); err != nil {
		t.Fatalf("Restart: %v", err)
	}
	if s.Spec() != "0 9 * * *" {
		t.Errorf("spec after restart = %q", s.Spec())
	}

	s.Stop()
	if s.Spec() != "" {
		t.Errorf("spec after stop = %q", s.Spec())
	}
	s.Stop() // idempotent
}
