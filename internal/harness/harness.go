// Package harness provides scoped browser sessions and failure instrumentation for
// tests that drive a browser directly.
package harness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// ErrSkip marks a test that decided not to run; it never triggers failure observers
var ErrSkip = errors.New("test skipped")

// Session is a browser session under test
type Session interface {
	// Screenshot saves the current page as a PNG at path
	Screenshot(ctx context.Context, path string) error
	Close() error
}

// Opener starts a new session
type Opener func(ctx context.Context) (Session, error)

// FailureObserver is called with the session of a test that failed, before the session is released
type FailureObserver func(ctx context.Context, test string, session Session, failure error)

// WithSession opens a session, runs fn and always closes the session afterwards.
// A close error is returned joined with fn's error.
func WithSession(ctx context.Context, open Opener, fn func(ctx context.Context, s Session) error) (err error) {
	session, err := open(ctx)
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close session: %w", closeErr))
		}
	}()
	return fn(ctx, session)
}

// Guard runs one test against session and notifies observer when it fails.
// Skips pass through untouched and panics are reported as failures.
func Guard(ctx context.Context, test string, session Session, observer FailureObserver, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("test %s panicked: %v", test, r)
		}
		if err != nil && !errors.Is(err, ErrSkip) && observer != nil {
			observer(ctx, test, session, err)
		}
	}()
	return fn(ctx)
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ScreenshotObserver saves a screenshot of failed tests to dir/folder/<test>-<timestamp>.png
func ScreenshotObserver(dir, folder string, logger *slog.Logger) FailureObserver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return func(ctx context.Context, test string, session Session, failure error) {
		target := filepath.Join(dir, folder)
		if err := os.MkdirAll(target, 0755); err != nil {
			logger.Error("could not create screenshot dir", "dir", target, "error", err)
			return
		}
		name := strings.Trim(unsafeName.ReplaceAllString(test, "-"), "-")
		path := filepath.Join(target, UniqueName(name, time.Now())+".png")
		if err := session.Screenshot(ctx, path); err != nil {
			logger.Error("screenshot failed", "test", test, "error", err)
			return
		}
		logger.Info("screenshot saved", "test", test, "path", path, "failure", failure)
	}
}

// UniqueName appends a timestamp to phrase
func UniqueName(phrase string, now time.Time) string {
	return phrase + "-" + now.Format("2006-01-02T15-04-05.000000")
}
