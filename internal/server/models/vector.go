package models

import (
	"database/sql/driver"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// DefaultVectorDimension is the output size of all-MiniLM-L6-v2, the model
// the catalog embeddings are produced with.
const DefaultVectorDimension = 384

// ErrVectorEncoding is returned for byte strings that are not a whole number
// of float32 values.
var ErrVectorEncoding = errors.New("malformed vector encoding")

// Vector is a book embedding. It is stored as packed little-endian float32
// values with no header; the dimension is len(bytes)/4. A nil Vector maps
// to SQL NULL.
type Vector []float32

// MarshalBinary encodes v as little-endian float32s.
func (v Vector) MarshalBinary() ([]byte, error) {
	out := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(out[4*i:], math.Float32bits(f))
	}
	return out, nil
}

// UnmarshalBinary decodes b into v. An empty b yields a nil Vector.
func (v *Vector) UnmarshalBinary(b []byte) error {
	if len(b) == 0 {
		*v = nil
		return nil
	}
	if len(b)%4 != 0 {
		return fmt.Errorf("%w: %d bytes", ErrVectorEncoding, len(b))
	}
	out := make(Vector, len(b)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
	}
	*v = out
	return nil
}

// Value implements driver.Valuer.
func (v Vector) Value() (driver.Value, error) {
	if v == nil {
		return nil, nil
	}
	return v.MarshalBinary()
}

// Scan implements sql.Scanner.
func (v *Vector) Scan(src any) error {
	switch s := src.(type) {
	case nil:
		*v = nil
		return nil
	case []byte:
		return v.UnmarshalBinary(s)
	default:
		return fmt.Errorf("%w: unsupported source %T", ErrVectorEncoding, src)
	}
}

// Dim is the number of components.
func (v Vector) Dim() int { return len(v) }
