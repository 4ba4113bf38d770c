package idpool

var (
	ErrNoCapacity       = &PoolError{"no capacity available for allocation"}
	ErrAlreadyAllocated = &PoolError{"identifier is already allocated"}
	ErrNotAllocated     = &PoolError{"identifier is not allocated"}
	ErrOutOfBounds      = &PoolError{"identifier is outside the pool domain"}
)

type PoolError struct {
	Msg string
}

func (e *PoolError) Error() string {
	return e.Msg
}

func (e *PoolError) Is(target error) bool {
	if targetErr, ok := target.(*PoolError); ok {
		return e.Msg == targetErr.Msg
	}
	return false
}
