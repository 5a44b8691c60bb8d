/*
Package observability turns machine lifecycle events into logs and metrics.

Everything here is a domain.LifecycleHooks value, so any combination can be
attached to a machine:

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	hooks := observability.Combine(
		observability.LoggingHooks(logger),
		metrics.Hooks(),
	)
	m, err := runtime.New(spec, data, runtime.WithLifecycleHooks(hooks))
*/
package observability
