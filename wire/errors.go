// Package wire implements the binary framing primitives shared by the
// peer-wire, DHT and UDP-tracker codecs: big-endian integer helpers,
// buffer length checks, and compact endpoint encoding.
package wire

import "fmt"

// ShortRead is returned when a buffer ends before a required field.
type ShortRead struct {
	Need int
	Have int
}

func (e *ShortRead) Error() string {
	return fmt.Sprintf("wire: short read: need %d bytes, have %d", e.Need, e.Have)
}

// BadMagic is returned when a magic constant does not match.
type BadMagic struct {
	Field string
}

func (e *BadMagic) Error() string {
	return fmt.Sprintf("wire: bad magic value for %s", e.Field)
}

// BadLength is returned when a length field would overflow its containing
// frame or an implementation-defined maximum.
type BadLength struct {
	Field string
	Value int64
	Max   int64
}

func (e *BadLength) Error() string {
	return fmt.Sprintf("wire: bad length for %s: %d exceeds max %d", e.Field, e.Value, e.Max)
}
