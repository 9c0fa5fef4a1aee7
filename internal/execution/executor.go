package execution

import "context"

// Executor runs the external test process for one invocation and waits for it to exit.
// A nonzero exit status is not an error: failing tests are read from the report.
type Executor interface {
	Execute(ctx context.Context, inv Invocation) error
}
