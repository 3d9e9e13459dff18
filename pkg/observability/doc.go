/*
Package observability provides tools for monitoring a running renderer session.

Metrics turns lifecycle hooks into Prometheus series: requests sent per
operation, response latency and ret codes, renderer events by outcome and
window transfer transitions. NewHandler serves them next to a JSON status
snapshot of the session.
*/
package observability
