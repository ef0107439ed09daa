package logmodule

import (
	"io"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally"
)

const metricsLogPrefix = "metrics"

// statsReporter is a tally reporter writing every flushed metric to logrus.
type statsReporter struct {
	entry *log.Entry
}

// NewStatsReporter returns a tally.StatsReporter backed by logrus.
func NewStatsReporter() tally.StatsReporter {
	return &statsReporter{entry: log.WithField("prefix", metricsLogPrefix)}
}

// NewMetricsScope creates the root metrics scope reporting every interval.
func NewMetricsScope(prefix string, interval time.Duration) (tally.Scope, io.Closer) {
	return tally.NewRootScope(tally.ScopeOptions{
		Prefix:   prefix,
		Reporter: NewStatsReporter(),
	}, interval)
}

func (r *statsReporter) fields(name string, tags map[string]string) *log.Entry {
	f := log.Fields{"metric": name}
	for k, v := range tags {
		f["tag_"+k] = v
	}
	return r.entry.WithFields(f)
}

func (r *statsReporter) ReportCounter(name string, tags map[string]string, value int64) {
	r.fields(name, tags).WithField("value", value).Debug("counter")
}

func (r *statsReporter) ReportGauge(name string, tags map[string]string, value float64) {
	r.fields(name, tags).WithField("value", value).Debug("gauge")
}

func (r *statsReporter) ReportTimer(name string, tags map[string]string, interval time.Duration) {
	r.fields(name, tags).WithField("value", interval).Debug("timer")
}

func (r *statsReporter) ReportHistogramValueSamples(
	name string,
	tags map[string]string,
	_ tally.Buckets,
	bucketLowerBound,
	bucketUpperBound float64,
	samples int64,
) {
	r.fields(name, tags).WithFields(log.Fields{
		"lower":   bucketLowerBound,
		"upper":   bucketUpperBound,
		"samples": samples,
	}).Debug("histogram")
}

func (r *statsReporter) ReportHistogramDurationSamples(
	name string,
	tags map[string]string,
	_ tally.Buckets,
	bucketLowerBound,
	bucketUpperBound time.Duration,
	samples int64,
) {
	r.fields(name, tags).WithFields(log.Fields{
		"lower":   bucketLowerBound,
		"upper":   bucketUpperBound,
		"samples": samples,
	}).Debug("histogram")
}

func (r *statsReporter) Capabilities() tally.Capabilities {
	return r
}

func (r *statsReporter) Reporting() bool {
	return true
}

func (r *statsReporter) Tagging() bool {
	return true
}

func (r *statsReporter) Flush() {}
