/*
Package observability exports navigation engine activity as Prometheus metrics.

Metrics are fed through domain.LifecycleHooks, so they can be merged with any
other hooks an application installs.
*/
package observability
