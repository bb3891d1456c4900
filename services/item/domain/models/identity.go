package models

// Identity is an authenticated caller identity as supplied by the session layer.
type Identity string

// IsZero reports whether the identity is empty.
func (i Identity) IsZero() bool {
	return i == ""
}

// String returns the underlying string value.
func (i Identity) String() string {
	return string(i)
}
