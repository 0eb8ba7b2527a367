package domain

// Ack answers one lifecycle event of the worker event stream.
// A worker waits for it before moving on and stops the build when Continue is false.
type Ack struct {
	Continue bool   `json:"continue"`
	Reason   string `json:"reason,omitempty"`
}

// Proceed is the acknowledgement that lets a build continue.
func Proceed() Ack {
	return Ack{Continue: true}
}

// Abort is the acknowledgement that stops a build.
func Abort(reason string) Ack {
	return Ack{Reason: reason}
}
