package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"sdtr/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

const (
	MetricsNamespace = "sdtr"
	JobName          = "sdtr"
	TextfileName     = "sdtr.prom"
)

// Recorder exports the results of a run as Prometheus gauges, written to a
// node-exporter textfile and optionally pushed to a Pushgateway
type Recorder struct {
	reg       *prometheus.Registry
	outputDir string
	pushURL   string
	logger    *slog.Logger

	targetPassed      *prometheus.GaugeVec
	targetFailed      *prometheus.GaugeVec
	targetPassRatio   *prometheus.GaugeVec
	targetReportError *prometheus.GaugeVec
	runPassRatio      *prometheus.GaugeVec
	runDuration       *prometheus.GaugeVec
	runTimestamp      *prometheus.GaugeVec
}

// NewRecorder creates a Recorder with its own registry. pushURL may be empty.
func NewRecorder(outputDir, pushURL string, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		reg:       reg,
		outputDir: outputDir,
		pushURL:   pushURL,
		logger:    logger,

		targetPassed: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "target_tests_passed",
			Help:      "Passed tests of a target as shown by its report summary",
		}, []string{"phrase", "target"}),
		targetFailed: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "target_tests_failed",
			Help:      "Failed and errored tests of a target as shown by its report summary",
		}, []string{"phrase", "target"}),
		targetPassRatio: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "target_pass_ratio_percent",
			Help:      "Pass ratio of a target in percent",
		}, []string{"phrase", "target"}),
		targetReportError: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "target_report_error",
			Help:      "1 when the target's report could not be parsed",
		}, []string{"phrase", "target"}),
		runPassRatio: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "run_pass_ratio_percent",
			Help:      "Overall pass ratio of the run in percent",
		}, []string{"phrase"}),
		runDuration: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the run",
		}, []string{"phrase"}),
		runTimestamp: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "run_last_finished_timestamp_seconds",
			Help:      "Unix time the last run finished",
		}, []string{"phrase"}),
	}
}

// Registry returns the registry holding the run gauges
func (r *Recorder) Registry() *prometheus.Registry {
	return r.reg
}

// Record sets the gauges from a finished run
func (r *Recorder) Record(run *domain.RunResult) {
	for _, t := range run.Targets {
		r.targetPassed.WithLabelValues(run.Phrase, t.Target).Set(float64(t.Passed()))
		r.targetFailed.WithLabelValues(run.Phrase, t.Target).Set(float64(t.Failed()))
		r.targetPassRatio.WithLabelValues(run.Phrase, t.Target).Set(t.Percent())
		reportError := 0.0
		if t.ParseFailed() {
			reportError = 1
		}
		r.targetReportError.WithLabelValues(run.Phrase, t.Target).Set(reportError)
	}
	r.runPassRatio.WithLabelValues(run.Phrase).Set(run.OverallPercent())
	r.runDuration.WithLabelValues(run.Phrase).Set(run.Duration().Seconds())
	if !run.Finished.IsZero() {
		r.runTimestamp.WithLabelValues(run.Phrase).Set(float64(run.Finished.Unix()))
	}
}

// TextfilePath returns where the metrics textfile is written
func (r *Recorder) TextfilePath() string {
	return filepath.Join(r.outputDir, TextfileName)
}

// Write records the run, writes the textfile and pushes to the Pushgateway when one is configured
func (r *Recorder) Write(ctx context.Context, run *domain.RunResult) error {
	r.Record(run)

	if err := prometheus.WriteToTextfile(r.TextfilePath(), r.reg); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}

	if r.pushURL == "" {
		return nil
	}
	pusher := push.New(r.pushURL, JobName).Gatherer(r.reg)
	if err := pusher.PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics to %s: %w", r.pushURL, err)
	}
	r.logger.Info("metrics pushed", "pushgateway", r.pushURL)
	return nil
}
