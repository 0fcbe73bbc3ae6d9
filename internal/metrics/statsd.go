package metrics

import (
	"fmt"
	"time"

	"github.com/cactus/go-statsd-client/v5/statsd"
)

const sampleRate = 1.0

// StatsdRecorder sends metrics over UDP to a statsd daemon.
type StatsdRecorder struct {
	client statsd.Statter
}

// NewStatsdRecorder dials addr (host:port). An empty prefix sends bare names.
func NewStatsdRecorder(addr, prefix string) (*StatsdRecorder, error) {
	client, err := statsd.NewClientWithConfig(&statsd.ClientConfig{
		Address: addr,
		Prefix:  prefix,
	})
	if err != nil {
		return nil, fmt.Errorf("statsd client: %w", err)
	}
	return NewStatsdRecorderWithClient(client), nil
}

func NewStatsdRecorderWithClient(client statsd.Statter) *StatsdRecorder {
	return &StatsdRecorder{client: client}
}

func (r *StatsdRecorder) IncrementAPICount(name string) {
	_ = r.client.Inc(APICountStat(name), 1, sampleRate)
}

func (r *StatsdRecorder) RecordAPITime(name string, d time.Duration) {
	_ = r.client.TimingDuration(APITimeStat(name), d, sampleRate)
}

func (r *StatsdRecorder) RecordDBQueryTime(name string, d time.Duration) {
	_ = r.client.TimingDuration(DBQueryTimeStat(name), d, sampleRate)
}

func (r *StatsdRecorder) RecordS3OperationTime(name string, d time.Duration) {
	_ = r.client.TimingDuration(S3OperationStat(name), d, sampleRate)
}

func (r *StatsdRecorder) Close() error {
	return r.client.Close()
}
