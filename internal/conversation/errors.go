package conversation

import "fmt"

// Cause classifies why a reply could not be produced or delivered.
type Cause string

const (
	// CauseCompletion covers model completion failures: network errors,
	// quota errors, malformed responses.
	CauseCompletion Cause = "completion_failed"
	// CauseDelivery covers reply delivery failures: invalid or expired
	// reply token, text too long.
	CauseDelivery Cause = "delivery_failed"
)

// ReplyError carries the structured cause of a failed reply. The user-facing
// apology text is rendered only at the webhook boundary; logs and tests see
// the cause and the wrapped error.
type ReplyError struct {
	Cause Cause
	Err   error
}

func (e *ReplyError) Error() string {
	return fmt.Sprintf("conversation: %s: %v", e.Cause, e.Err)
}

func (e *ReplyError) Unwrap() error {
	return e.Err
}

// UserMessage renders the apology reply sent back to the user in place of a
// normal reply.
func (e *ReplyError) UserMessage() string {
	return fmt.Sprintf("エラーが発生しました: %v", e.Err)
}
