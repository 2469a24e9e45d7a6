package testutil

import "sync"

// Recorder captures generator invocations in the order they occur.
//
// Tests register recording callbacks with the dispatcher and then assert on
// the payload sequence afterwards. A single Recorder may be shared by the
// callbacks of several targets; the recorded order is then the combined
// invocation order across all of them.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex,
// so one Recorder can also back expansion calls running on separate
// goroutines.
type Recorder struct {
	mu       sync.Mutex
	payloads []string
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record appends one payload to the invocation log.
func (r *Recorder) Record(payload string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payloads = append(r.payloads, payload)
}

// Payloads returns a copy of the recorded payloads in invocation order.
func (r *Recorder) Payloads() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.payloads))
	copy(out, r.payloads)
	return out
}

// Count returns the number of recorded invocations.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.payloads)
}

// Reset clears the invocation log for reuse.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payloads = nil
}
