// Package jsoncompat picks the JSON codec at build time.
package jsoncompat

type Encoder interface {
	Encode(v any) error
}

type Decoder interface {
	Decode(v any) error
}
