/*
Package observability provides Prometheus instrumentation for the model graph
and its change bus.

Register the collectors once and hand the result to the graph and bus:

	m, err := observability.NewMetrics(prometheus.DefaultRegisterer)
	g := model.New(model.WithMetrics(m))

A nil *Metrics is accepted everywhere and records nothing.
*/
package observability
