// Package statsview is an optional package that is built only when the
// statsview build constraint is present.
//
// It provides an HTTP server running locally offering runtime statistics,
// using "github.com/go-echarts/statsview". After launch, graphs are
// viewable at:
//
//	localhost:12800/debug/statsview
//
// Standard Go pprof statistics are available at:
//
//	localhost:12800/debug/pprof/
package statsview
