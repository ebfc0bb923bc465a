package report

const (
	MetricCPU    = "CPU Usage"
	MetricMemory = "Memory Usage"
	MetricDocker = "Docker Stats"
)

// Series holds the numeric samples emitted during one run, per metric, in
// emission order.
type Series struct {
	names   []string
	samples map[string][]float64
}

// NewSeries returns a series with the CPU, memory and docker buckets.
func NewSeries() *Series {
	s := &Series{samples: map[string][]float64{}}
	for _, n := range []string{MetricCPU, MetricMemory, MetricDocker} {
		s.names = append(s.names, n)
		s.samples[n] = nil
	}
	return s
}

// Append records a sample; unknown metrics get a new bucket.
func (s *Series) Append(metric string, value float64) {
	if _, ok := s.samples[metric]; !ok {
		s.names = append(s.names, metric)
	}
	s.samples[metric] = append(s.samples[metric], value)
}

// Names lists the buckets in creation order, empty ones included.
func (s *Series) Names() []string {
	return append([]string(nil), s.names...)
}

func (s *Series) Samples(metric string) []float64 {
	return s.samples[metric]
}

// Empty reports whether no bucket has a sample.
func (s *Series) Empty() bool {
	for _, v := range s.samples {
		if len(v) > 0 {
			return false
		}
	}
	return true
}
