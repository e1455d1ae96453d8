package core

// Frame is a raw encoded payload, one JSON event per frame.
type Frame []byte

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	// TrySend must not block. An error means the frame was dropped.
	TrySend(Frame) error
	Close()
}
