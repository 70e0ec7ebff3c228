package source

import "github.com/philipp01105/sinklog/core"

// Consumer receives entries from log sources. The category logger of the
// default category implements it.
type Consumer interface {
	Submit(level core.Level, sourceID, message string, err error, stackTrace string, context interface{}, args ...interface{})
}

// Source is an adapter that feeds external events into a Consumer.
// Dispose unhooks it from whatever it is attached to.
type Source interface {
	ID() string
	Dispose() error
}
