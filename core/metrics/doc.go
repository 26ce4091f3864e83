// Package metrics declares the prometheus collectors of the comparison service.
//
// Collectors are registered on the default registry through promauto and are
// exposed by the start command on GET /metrics.
package metrics
