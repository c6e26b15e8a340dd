package domain

import "errors"

// ErrValueAbsent is returned by a variable pool when a selector has no value
// yet. The coordinator treats it as "not ready", never as a failure.
var ErrValueAbsent = errors.New("value absent")

// ErrUnknownNode is returned when a node id does not exist in the graph.
var ErrUnknownNode = errors.New("unknown node")
