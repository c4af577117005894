package wire

// MsgStep reports the beginning of a step of the target-side sequence.
type MsgStep struct {
	Ordinal uint64
	Total   uint64
	Name    string
}

// MsgLog relays a log line produced inside the chroot.
type MsgLog struct {
	Level   string
	Message string
}

// MsgResult reports the final result of the target-side sequence.
type MsgResult struct {
	Code  uint64
	Error string
}
