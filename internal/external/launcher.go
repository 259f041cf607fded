// Package external hands reference links to the rest of the desktop: the
// system browser and the clipboard.
package external

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// ErrUnsupportedURL is returned for links that are not absolute http(s) URLs.
var ErrUnsupportedURL = errors.New("only http and https links can be opened")

// Launcher opens a URL outside the application.
type Launcher interface {
	Open(ctx context.Context, link string) error
}

// BrowserLauncher opens links with the platform's default handler.
type BrowserLauncher struct {
	goos  string
	start func(*exec.Cmd) error
}

// NewBrowserLauncher returns a launcher for the running platform.
func NewBrowserLauncher() *BrowserLauncher {
	return &BrowserLauncher{
		goos:  runtime.GOOS,
		start: func(c *exec.Cmd) error { return startDetached(c, nil) },
	}
}

// startDetached starts cmd and waits for it on a separate goroutine so the
// opener is reaped. The exit result goes to done when it is not nil.
func startDetached(cmd *exec.Cmd, done chan<- error) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		err := cmd.Wait()
		if done != nil {
			done <- err
		}
	}()
	return nil
}

// Open validates link and starts the platform opener without waiting for it.
func (l *BrowserLauncher) Open(ctx context.Context, link string) error {
	if err := ValidateLink(link); err != nil {
		return err
	}

	name, args, err := openCommand(l.goos, link)
	if err != nil {
		return err
	}
	cmd := exec.CommandContext(context.WithoutCancel(ctx), name, args...)
	if err := l.start(cmd); err != nil {
		return fmt.Errorf("open %s: %w", link, err)
	}
	return nil
}

// ValidateLink accepts absolute http and https URLs only.
func ValidateLink(link string) error {
	u, err := url.Parse(link)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupportedURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrUnsupportedURL, link)
	}
	return nil
}

func openCommand(goos, link string) (string, []string, error) {
	switch goos {
	case "darwin":
		return "open", []string{link}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", link}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{link}, nil
	default:
		return "", nil, fmt.Errorf("opening links is not supported on %s", goos)
	}
}
