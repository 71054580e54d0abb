package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	jobsStarted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "attendance",
		Subsystem: "reports",
		Name:      "jobs_started_total",
		Help:      "Number of report jobs accepted by the coordinator.",
	}, []string{"format"})

	jobsCompleted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "attendance",
		Subsystem: "reports",
		Name:      "jobs_completed_total",
		Help:      "Number of report jobs that finished with a rendered document.",
	}, []string{"format"})

	jobsFailed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "attendance",
		Subsystem: "reports",
		Name:      "jobs_failed_total",
		Help:      "Number of report jobs that ended in FAILED.",
	}, []string{"format"})

	queueDepth = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "attendance",
		Subsystem: "reports",
		Name:      "queue_depth",
		Help:      "Work items currently buffered in the report queue.",
	})
)

func init() {
	prometheus.MustRegister(jobsStarted, jobsCompleted, jobsFailed, queueDepth)
}

// RecordJobStarted counts a job accepted into the pipeline.
func RecordJobStarted(format string) {
	jobsStarted.WithLabelValues(format).Inc()
}

// RecordJobCompleted counts a successfully rendered job.
func RecordJobCompleted(format string) {
	jobsCompleted.WithLabelValues(format).Inc()
}

// RecordJobFailed counts a job that ended FAILED.
func RecordJobFailed(format string) {
	jobsFailed.WithLabelValues(format).Inc()
}

// SetQueueDepth updates the buffered work item gauge.
func SetQueueDepth(n int) {
	queueDepth.Set(float64(n))
}
