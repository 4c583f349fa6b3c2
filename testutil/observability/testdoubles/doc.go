// Package testdoubles provides spy implementations of the catalog
// observability interfaces (logger, metrics collector, tracing
// collector). They capture calls for assertion in handler tests
// without pulling any real telemetry backend into the test binary.
package testdoubles
