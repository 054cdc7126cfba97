package metrics

import "time"

const (
	OK      string = "ok"
	Err     string = "err"
	Timeout string = "timeout"
)

// REDTracker records the rate, errors and duration of a single action.
type REDTracker struct {
	service string
	action  string
	status  string
	Now     time.Time
}

func NewRED(service, action string) *REDTracker {
	return &REDTracker{
		service: service,
		action:  action,
		status:  OK,
		Now:     time.Now(),
	}
}

func (r *REDTracker) Done() {
	RED.
		WithLabelValues(r.service, r.action, r.status).
		Observe(time.Since(r.Now).Seconds())
}

func (r *REDTracker) Fail() {
	r.status = Err
}

func (r *REDTracker) SetStatus(status string) {
	r.status = status
}
