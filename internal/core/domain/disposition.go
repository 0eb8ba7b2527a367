package domain

// Disposition tells the worker pool what to do with a connection after a build.
type Disposition int

const (
	// Recycle returns the connection to the pool for reuse.
	Recycle Disposition = iota
	// Discard closes the connection. It is never handed out again.
	Discard
)

func (d Disposition) String() string {
	if d == Discard {
		return "discard"
	}
	return "recycle"
}
