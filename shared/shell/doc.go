// Package shell provides the shared infrastructure helpers used by the
// feature handlers: observability constants, metric recording, span
// management and structured logging around command and query execution.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would
// be called the 'infrastructure' layer. The handlers form the imperative
// shell around the functional core in the catalog package.
package shell
