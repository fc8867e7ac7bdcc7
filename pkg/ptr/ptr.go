package ptr

// New creates and returns a pointer to the provided value.
// It's a generic function that works with any type T.
func New[T any](v T) *T { return &v }

// Deref returns *p, or the zero value of T when p is nil.
func Deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
