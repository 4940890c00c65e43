package bencode

import "fmt"

// Kind classifies the typed accessor a caller asked for, used in KeyError.
type Kind int

const (
	KindBytes Kind = iota
	KindInt
	KindList
	KindDict
)

func (k Kind) String() string {
	switch k {
	case KindBytes:
		return "bytes"
	case KindInt:
		return "int"
	case KindList:
		return "list"
	case KindDict:
		return "dict"
	default:
		return "unknown"
	}
}

// KeyError is returned by the typed dictionary accessors when a key is
// missing or holds a value of the wrong kind.
type KeyError struct {
	Key      string
	Expected Kind
	Present  bool
}

func (e *KeyError) Error() string {
	if !e.Present {
		return fmt.Sprintf("bencode: missing key %q (expected %s)", e.Key, e.Expected)
	}
	return fmt.Sprintf("bencode: key %q is not %s", e.Key, e.Expected)
}

// SyntaxError is returned by Parse when the input is not well-formed
// bencode.
type SyntaxError struct {
	Offset int
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("bencode: syntax error at offset %d: %s", e.Offset, e.Reason)
}
