package trackerudp

import "fmt"

// InvalidResponse is a UDP tracker datagram that failed kind-specific
// validation (request or response). An action=3 error response from the
// tracker is not reported through it: ParseResponse returns that as an
// *ErrorResponse with a nil error.
type InvalidResponse struct {
	Detail string
}

func (e *InvalidResponse) Error() string {
	return "trackerudp: invalid response: " + e.Detail
}

// RemoteError wraps an action=3 error response's textual diagnostic.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("trackerudp: tracker error: %s", e.Message)
}

// UnknownAction is returned by ParseRequest for an action other than
// Connect, Announce, Scrape, or AnnounceV6, and by ParseResponse when the
// expected action is none of those.
type UnknownAction struct {
	Action uint32
}

func (e *UnknownAction) Error() string {
	return fmt.Sprintf("trackerudp: unknown action %d", e.Action)
}
