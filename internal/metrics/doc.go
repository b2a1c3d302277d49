/*
Package metrics provides Prometheus metrics for baasclient requests.

# Overview

The Collector keeps a private Prometheus registry so that embedding applications
decide whether and where to expose it. It records:

	requests_total{operation,status}        completed and failed requests
	request_duration_seconds{operation}     request latency
	rejected_inputs_total{operation,code}   operations refused by input validation

status is the HTTP status code, or "error" when no response was received.
Alongside the Prometheus series the collector keeps a per-operation snapshot
(GetMetrics) for debugging.

# Usage

	collector, err := metrics.NewCollector(nil)
	if err != nil {
		return err
	}
	http.Handle("/metrics", collector.Handler())

A nil or disabled Collector accepts every call and records nothing.
*/
package metrics
