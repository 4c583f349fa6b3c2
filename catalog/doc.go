// Package catalog contains the core types of the library catalog:
// the Book, Author and User entities, the field-demand analysis for
// incoming read requests, the filter arguments understood by the
// relation fetch planner, the error taxonomy shared by all mutations,
// and the ports (Store, Logger, MetricsCollector, TracingCollector)
// that the feature packages consume.
//
// The package is dependency-free towards any concrete storage engine
// or transport: engines live in catalog/postgresengine and
// catalog/memoryengine, observability implementations in
// catalog/oteladapters.
package catalog
