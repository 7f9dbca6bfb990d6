package acquire

import "fmt"

// Kind classifies why acquisition failed.
type Kind string

const (
	// KindNotFound means the remote media does not exist or is unavailable.
	KindNotFound Kind = "not-found"
	// KindNetwork covers transport failures and tool errors while downloading.
	KindNetwork Kind = "network"
	// KindLocalMissing means a local path does not exist.
	KindLocalMissing Kind = "local-missing"
	// KindInvalid means the locator or the file it names is unusable.
	KindInvalid Kind = "invalid"
)

// Error is returned by every Acquirer.
type Error struct {
	Kind    Kind
	Locator string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("acquire %s (%s): %v", e.Locator, e.Kind, e.Err)
	}
	return fmt.Sprintf("acquire %s (%s)", e.Locator, e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, locator string, err error) *Error {
	return &Error{Kind: kind, Locator: locator, Err: err}
}
