package peerwire

import "fmt"

// InvalidMessage is returned for a peer-wire message that violates the
// protocol; per spec §7 receipt of this error means the connection must be
// dropped.
type InvalidMessage struct {
	Peer   string
	Detail string
}

func (e *InvalidMessage) Error() string {
	return fmt.Sprintf("peerwire: invalid message from %s: %s", e.Peer, e.Detail)
}

// TooLarge is returned by BytesNeeded when the declared frame length would
// exceed the configured maximum, per spec §4.3. The connection must be
// dropped without attempting to parse the frame.
type TooLarge struct {
	Declared int
	Max      int
}

func (e *TooLarge) Error() string {
	return fmt.Sprintf("peerwire: declared frame length %d exceeds maximum %d", e.Declared, e.Max)
}
