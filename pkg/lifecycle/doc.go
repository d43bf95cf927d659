// Package lifecycle provides server startup and shutdown orchestration.
//
// The Service coordinates the lifecycle of all DittoKV components:
// registry start, API server startup, graceful shutdown and ordered
// component teardown.
package lifecycle
