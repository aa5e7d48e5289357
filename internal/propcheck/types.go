package propcheck

import "time"

type Status string

const (
	StatusQueued  Status = "queued"
	StatusRunning Status = "running"
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Event reports progress of a single property.
type Event struct {
	Property string
	Status   Status
	Case     int
	Total    int
	Err      error
	Elapsed  time.Duration
}

// ProgressSink receives events from a run. Implementations must be safe
// for concurrent use.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// Result is the outcome of one property.
type Result struct {
	Property string        `json:"property"`
	Cases    int           `json:"cases"`
	Status   Status        `json:"status"`
	Failure  *Failure      `json:"failure,omitempty"`
	Elapsed  time.Duration `json:"elapsed_ns"`
}

// Report collects results in registry order.
type Report struct {
	Seed    uint64        `json:"seed"`
	Results []Result      `json:"results"`
	Elapsed time.Duration `json:"elapsed_ns"`
}

// Failed reports whether any property failed.
func (r *Report) Failed() bool {
	for _, res := range r.Results {
		if res.Status == StatusFailed {
			return true
		}
	}
	return false
}

// Failures returns the recorded failures.
func (r *Report) Failures() []*Failure {
	var out []*Failure
	for _, res := range r.Results {
		if res.Failure != nil {
			out = append(out, res.Failure)
		}
	}
	return out
}
