package main

import (
	"os"
	"os/exec"
	"testing"
)

func TestMain(t *testing.T) {
	// main calls os.Exit on failure, so run it in a subprocess.
	if os.Getenv("BE_TAGSON_MAIN") == "1" {
		main()
		return
	}

	tests := []struct {
		name     string
		args     []string
		wantExit int
	}{
		{
			name:     "help command",
			args:     []string{"--help"},
			wantExit: 0,
		},
		{
			name:     "unknown command",
			args:     []string{"bogus"},
			wantExit: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(os.Args[0], "-test.run=TestMain")
			cmd.Env = append(os.Environ(), "BE_TAGSON_MAIN=1")
			cmd.Args = append([]string{os.Args[0]}, tt.args...)

			err := cmd.Run()

			if tt.wantExit == 0 && err != nil {
				t.Errorf("Expected success but got error: %v", err)
			}
			if tt.wantExit == 1 {
				exitError, ok := err.(*exec.ExitError)
				if !ok {
					t.Fatalf("Expected ExitError, got %v", err)
				}
				if exitError.ExitCode() != 1 {
					t.Errorf("Expected exit code 1, got %d", exitError.ExitCode())
				}
			}
		})
	}
}
