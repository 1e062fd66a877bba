package acquire

// Reporter receives pipeline progress events. Implementations must be
// safe for concurrent use: parallel pulls report from their own
// goroutines.
type Reporter interface {
	// Phase announces that the named artifact entered a new phase, such as
	// "downloading" or "extracting".
	Phase(name, phase string)
	// Progress reports bytes handled so far. total is 0 when unknown.
	Progress(name string, done, total int64)
	// Done announces that the named artifact completed, or failed with err.
	Done(name string, err error)
}

type nopReporter struct{}

func (nopReporter) Phase(string, string)          {}
func (nopReporter) Progress(string, int64, int64) {}
func (nopReporter) Done(string, error)            {}

// NopReporter returns a Reporter that discards every event.
func NopReporter() Reporter { return nopReporter{} }
