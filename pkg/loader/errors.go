package loader

import "fmt"

// IOError reports a failure to open or read a source.
// The underlying cause is available through errors.Unwrap.
type IOError struct {
	Path string
	Op   string // "opening" or "reading"
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
