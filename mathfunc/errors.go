package mathfunc

import "fmt"

// ComputeError is returned when an analysis cannot be carried out for the
// given function, as opposed to the request being malformed.
type ComputeError struct {
	Action string
	Msg    string
	Err    error
}

func (e *ComputeError) Error() string {
	switch {
	case e.Msg != "":
		return e.Msg
	case e.Err != nil:
		return fmt.Sprintf("cannot compute %s: %s", e.Action, e.Err)
	}

	return fmt.Sprintf("cannot compute %s", e.Action)
}

func (e *ComputeError) Unwrap() error {
	return e.Err
}
