package to

// Ptr returns a pointer to the given value.
func Ptr[T any](v T) *T {
	return &v
}

// Empty returns the zero value of T when the pointer is nil, the pointed-to value otherwise.
func Empty[T any](ptr *T) T {
	if ptr == nil {
		var zero T
		return zero
	}
	return *ptr
}
