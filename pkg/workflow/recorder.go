package workflow

import "time"

// Recorder receives workflow telemetry. Implementations must be safe for
// concurrent use.
type Recorder interface {
	NodeCompleted(node string, d time.Duration, err error)
	ModelCalled(node string, d time.Duration, err error)
	QueryExecuted(d time.Duration, err error)
	VerdictFallback()
	RunCompleted(outcome string, d time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) NodeCompleted(string, time.Duration, error) {}
func (nopRecorder) ModelCalled(string, time.Duration, error)   {}
func (nopRecorder) QueryExecuted(time.Duration, error)         {}
func (nopRecorder) VerdictFallback()                           {}
func (nopRecorder) RunCompleted(string, time.Duration)         {}
