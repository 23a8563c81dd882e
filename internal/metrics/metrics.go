// Package metrics defines the Prometheus counters exported by the server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Metrics groups the application counters.
type Metrics struct {
	Logins    *prometheus.CounterVec
	Commits   *prometheus.CounterVec
	Downloads prometheus.Counter
}

// New creates the counters and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "coursekeeper_logins_total",
			Help: "Login attempts by result.",
		}, []string{"result"}),
		Commits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "coursekeeper_commits_total",
			Help: "Course edit commits by result.",
		}, []string{"result"}),
		Downloads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "coursekeeper_attachment_downloads_total",
			Help: "Attachment files served.",
		}),
	}
	reg.MustRegister(m.Logins, m.Commits, m.Downloads)
	return m
}

// Result maps an error to a result label.
func Result(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}
