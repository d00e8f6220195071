package dataset

import "fmt"

// LoadError indicates a dataset file that is missing, unreadable, or does
// not match the expected schema. It names the failing file and, when known,
// the column and row so the diagnostic points at the offending cell.
type LoadError struct {
	File   string
	Column string
	Row    int // 1-based data row; 0 when the problem is file- or header-level
	Msg    string
	Err    error
}

func (e *LoadError) Error() string {
	switch {
	case e.Column != "" && e.Row > 0:
		return fmt.Sprintf("load %s: column %q row %d: %s", e.File, e.Column, e.Row, e.Msg)
	case e.Column != "":
		return fmt.Sprintf("load %s: column %q: %s", e.File, e.Column, e.Msg)
	case e.Err != nil:
		return fmt.Sprintf("load %s: %v", e.File, e.Err)
	default:
		return fmt.Sprintf("load %s: %s", e.File, e.Msg)
	}
}

func (e *LoadError) Unwrap() error { return e.Err }
