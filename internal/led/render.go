package led

import (
	"context"
	"time"

	"github.com/sweeney/mode-button/internal/logic"
)

// Render plays pulses on the LED using tok. The LED is always left off,
// including when ctx is cancelled part way through. A cancelled ctx
// never turns the LED on.
func Render(ctx context.Context, tok *Token, pulses []logic.Pulse) error {
	for i, p := range pulses {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := tok.Set(true); err != nil {
			return err
		}
		if !sleep(ctx, p.On) {
			tok.Set(false)
			return ctx.Err()
		}
		if err := tok.Set(false); err != nil {
			return err
		}
		if i < len(pulses)-1 && p.Gap > 0 {
			if !sleep(ctx, p.Gap) {
				return ctx.Err()
			}
		}
	}
	return nil
}

// sleep waits for d or until ctx is done. It reports whether the full
// duration elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
