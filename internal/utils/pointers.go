package utils

// Value dereferences v, returning the zero value for nil.
func Value[T any](v *T) T {
	if v == nil {
		return *new(T)
	}
	return *v
}

func Ptr[T any](v T) *T {
	return &v
}

// SetIf copies *v into dst when v is set. Used to apply partial updates.
func SetIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
