// Package metrics records request, query and object-storage timings.
// Recording is fire-and-forget: a failing backend never fails a request.
package metrics

import "time"

type Recorder interface {
	IncrementAPICount(name string)
	RecordAPITime(name string, d time.Duration)
	RecordDBQueryTime(name string, d time.Duration)
	RecordS3OperationTime(name string, d time.Duration)
}

func APICountStat(name string) string    { return "api." + name + ".count" }
func APITimeStat(name string) string     { return "api." + name + ".time" }
func DBQueryTimeStat(name string) string { return "db.query." + name + ".time" }
func S3OperationStat(name string) string { return "s3.operation." + name + ".time" }

// Nop discards everything.
type Nop struct{}

func (Nop) IncrementAPICount(string)                    {}
func (Nop) RecordAPITime(string, time.Duration)         {}
func (Nop) RecordDBQueryTime(string, time.Duration)     {}
func (Nop) RecordS3OperationTime(string, time.Duration) {}

