package rangetree

// ErrInvalidRange is returned when a range is constructed or submitted with
// its high endpoint below its low endpoint.
var ErrInvalidRange = &RangeError{"invalid range: high endpoint below low endpoint"}

type RangeError struct {
	Msg string
}

func (e *RangeError) Error() string {
	return e.Msg
}

func (e *RangeError) Is(target error) bool {
	if targetErr, ok := target.(*RangeError); ok {
		return e.Msg == targetErr.Msg
	}
	return false
}
