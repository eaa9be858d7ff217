package decoders

import "encoding/json"

// Opt is a field that may be "not available" on the wire. The wire
// sentinel is written whenever Valid is false.
type Opt[T any] struct {
	V     T
	Valid bool
}

// Some returns an available value.
func Some[T any](v T) Opt[T] {
	return Opt[T]{V: v, Valid: true}
}

// Get returns the value and whether it is available.
func (o Opt[T]) Get() (T, bool) {
	return o.V, o.Valid
}

func (o Opt[T]) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.V)
}

func (o *Opt[T]) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		var zero T
		o.V, o.Valid = zero, false
		return nil
	}
	if err := json.Unmarshal(b, &o.V); err != nil {
		return err
	}
	o.Valid = true
	return nil
}
