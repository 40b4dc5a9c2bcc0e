package record

import "errors"

var (
	// ErrRecording is the category every recorder failure belongs to. It is
	// distinct from simulation errors so hosts can keep the display running
	// when only the recording broke.
	ErrRecording = errors.New("recording failure")
	// ErrClosed is returned when frames are submitted after Finalize or Abort.
	ErrClosed = errors.New("recorder closed")
	// ErrAborted is returned by Finalize when Abort won the race.
	ErrAborted = errors.New("recording aborted")
)

// Error describes a failed recorder operation.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return "record: " + e.Op + ": " + e.Err.Error() }

// Unwrap exposes both the recording category and the underlying cause.
func (e *Error) Unwrap() []error { return []error{ErrRecording, e.Err} }

func fail(op string, err error) error {
	if err == nil {
		return nil
	}
	var re *Error
	if errors.As(err, &re) {
		return err
	}
	return &Error{Op: op, Err: err}
}
