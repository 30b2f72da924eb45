// Package codec defines the value (de)serializers used by the typed layer to
// store structured values in the string-keyed core.
package codec

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
