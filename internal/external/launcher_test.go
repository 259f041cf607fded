package external

import (
	"context"
	"errors"
	"os/exec"
	"runtime"
	"slices"
	"testing"
	"time"
)

func TestValidateLink(t *testing.T) {
	tests := []struct {
		link string
		ok   bool
	}{
		{"https://www.youtube.com/watch?v=ukzFI9rgwfU", true},
		{"http://example.com", true},
		{"", false},
		{"javascript:alert(1)", false},
		{"file:///etc/passwd", false},
		{"www.youtube.com/watch", false},
		{"https://", false},
	}
	for _, tt := range tests {
		err := ValidateLink(tt.link)
		if (err == nil) != tt.ok {
			t.Errorf("ValidateLink(%q) = %v, want ok=%v", tt.link, err, tt.ok)
		}
		if err != nil && !errors.Is(err, ErrUnsupportedURL) {
			t.Errorf("ValidateLink(%q) should wrap ErrUnsupportedURL", tt.link)
		}
	}
}

func TestOpenCommand(t *testing.T) {
	const link = "https://example.com"
	tests := []struct {
		goos     string
		wantName string
		wantErr  bool
	}{
		{"darwin", "open", false},
		{"linux", "xdg-open", false},
		{"freebsd", "xdg-open", false},
		{"windows", "rundll32", false},
		{"plan9", "", true},
	}
	for _, tt := range tests {
		name, args, err := openCommand(tt.goos, link)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: err = %v, wantErr %v", tt.goos, err, tt.wantErr)
			continue
		}
		if name != tt.wantName {
			t.Errorf("%s: name = %q, want %q", tt.goos, name, tt.wantName)
		}
		if !tt.wantErr && args[len(args)-1] != link {
			t.Errorf("%s: link should be the last argument, got %q", tt.goos, args)
		}
	}
}

func TestBrowserLauncher_Open(t *testing.T) {
	var started []string
	l := &BrowserLauncher{
		goos: "linux",
		start: func(c *exec.Cmd) error {
			started = c.Args
			return nil
		},
	}

	if err := l.Open(context.Background(), "https://example.com/a"); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !slices.Equal(started, []string{"xdg-open", "https://example.com/a"}) {
		t.Errorf("started %q", started)
	}
}

func TestBrowserLauncher_RejectsBeforeStarting(t *testing.T) {
	called := false
	l := &BrowserLauncher{goos: "linux", start: func(*exec.Cmd) error { called = true; return nil }}

	if err := l.Open(context.Background(), "ftp://example.com"); !errors.Is(err, ErrUnsupportedURL) {
		t.Fatalf("err = %v, want ErrUnsupportedURL", err)
	}
	if called {
		t.Error("opener should not run for rejected links")
	}
}

func TestBrowserLauncher_StartFailure(t *testing.T) {
	l := &BrowserLauncher{goos: "darwin", start: func(*exec.Cmd) error { return errors.New("not found") }}
	if err := l.Open(context.Background(), "https://example.com"); err == nil {
		t.Fatal("expected error")
	}
}

func TestStartDetached_ReapsProcess(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
	cmd := exec.Command("sh", "-c", "exit 3")
	done := make(chan error, 1)
	if err := startDetached(cmd, done); err != nil {
		t.Fatalf("startDetached: %v", err)
	}

	select {
	case err := <-done:
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) || exitErr.ExitCode() != 3 {
			t.Fatalf("wait err = %v, want exit status 3", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("process was not waited for")
	}
	if cmd.ProcessState == nil || !cmd.ProcessState.Exited() {
		t.Error("process state should be collected")
	}
}

func TestStartDetached_StartFailure(t *testing.T) {
	done := make(chan error, 1)
	err := startDetached(exec.Command("pathwise-no-such-opener"), done)
	if err == nil {
		t.Fatal("expected start error")
	}
	select {
	case <-done:
		t.Error("nothing should be reported for a command that never started")
	default:
	}
}
