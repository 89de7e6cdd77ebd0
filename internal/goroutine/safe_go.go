package goroutine

import (
	"context"
	"runtime/debug"

	"github.com/flastal/flastal-backend/internal/logger"
)

// SafeGo runs fn in a goroutine and turns a panic into an error log
// instead of a crash. Post-commit side effects (notifications, socket
// pushes) run through here so a bad payload never takes the server down.
func SafeGo(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Log.Errorf("panic in goroutine: %v\nstack:\n%s", r, debug.Stack())
			}
		}()
		fn()
	}()
}

// SafeGoWithContext is SafeGo for functions that take a context.
func SafeGoWithContext(ctx context.Context, fn func(context.Context)) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Log.Errorf("panic in goroutine: %v\nstack:\n%s", r, debug.Stack())
			}
		}()
		fn(ctx)
	}()
}
