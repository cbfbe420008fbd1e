package metrics

import "time"

// Recorder receives routing counters and latencies.
type Recorder interface {
	IncCounter(name string, labels map[string]string)
	ObserveLatency(name string, duration time.Duration, labels map[string]string)
}

// Metric names
const (
	RouteTotal      = "route"
	RouteLatency    = "route"
	ActionTotal     = "action"
	AlertTotal      = "alert"
	TaskFailedTotal = "task_failed"
	NetworkSwitch   = "network_switch"
	TxSubmitted     = "tx_submitted"
)
