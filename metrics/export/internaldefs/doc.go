// Package internaldefs holds the shared metric name and bucket definitions
// consumed by the exporter packages under metrics/export.
package internaldefs
