// internal/domain/upload/entity.go
package upload

import "fmt"

// ErrorKind classifies upload failures
type ErrorKind string

const (
	KindTooLarge        ErrorKind = "too_large"
	KindUnsupportedType ErrorKind = "unsupported_type"
	KindRemote          ErrorKind = "remote"
)

// Error is a payment proof upload failure
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Result is the single terminal outcome of an upload task
type Result struct {
	Ref string // proof reference: remote URL or local ephemeral reference
	Err error
}

// Task is one asynchronous upload. Progress emits values in [0,100] while
// the transfer runs; Done delivers exactly one Result. Local fallback tasks
// complete synchronously and never report progress.
type Task struct {
	Progress <-chan int
	Done     <-chan Result
	Local    bool
}

// Wait blocks until the task completes and returns its result
func (t *Task) Wait() Result {
	return <-t.Done
}
