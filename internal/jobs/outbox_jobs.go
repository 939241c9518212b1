package jobs

import "context"

// DispatchOutbox delivers one batch of pending lifecycle events.
func (jr *JobRunner) DispatchOutbox() {
	jr.runWithRecovery("DispatchOutbox", func() {
		jr.notifier.Dispatch(context.Background())
	})
}
