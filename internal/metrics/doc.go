// Package metrics counts puzzle activity with Prometheus collectors.
//
// There is no HTTP listener: the registry is dumped to a node_exporter
// textfile collector file instead.
package metrics
