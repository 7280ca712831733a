package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// getMetricValue retrieves the current float64 value of a gauge or counter
// for the given set of labels. Returns an error if the metric cannot be parsed.
func getMetricValue(metric prometheus.Collector, labels map[string]string) (float64, error) {
	m, err := writeMetric(metric, labels)
	if err != nil {
		return 0, err
	}

	switch {
	case m.Gauge != nil:
		return m.Gauge.GetValue(), nil
	case m.Counter != nil:
		return m.Counter.GetValue(), nil
	}
	return 0, nil
}

// getSampleCount returns how many observations a histogram has recorded
// for the given labels.
func getSampleCount(metric *prometheus.HistogramVec, labels map[string]string) (uint64, error) {
	m, err := writeMetric(metric, labels)
	if err != nil {
		return 0, err
	}
	return m.GetHistogram().GetSampleCount(), nil
}

func writeMetric(metric prometheus.Collector, labels map[string]string) (*dto.Metric, error) {
	var c prometheus.Collector
	switch v := metric.(type) {
	case *prometheus.GaugeVec:
		c = v.With(labels)
	case *prometheus.CounterVec:
		c = v.With(labels)
	case *prometheus.HistogramVec:
		c = v.With(labels).(prometheus.Histogram)
	default:
		c = metric
	}

	ch := make(chan prometheus.Metric, 1)
	c.Collect(ch)
	m := <-ch

	pb := &dto.Metric{}
	if err := m.Write(pb); err != nil {
		return nil, err
	}
	return pb, nil
}
