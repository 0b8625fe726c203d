// Package metrics provides build metrics for forumsite runs.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so call sites never check for nil. PrometheusRecorder keeps
// its metrics in a private registry and can dump them in the node exporter
// textfile format at the end of a run:
//
//	rec := metrics.NewPrometheusRecorder(nil)
//	gen := site.NewGenerator(cfg, site.WithRecorder(rec))
//	...
//	_ = rec.WriteTextfile("/var/lib/node_exporter/forumsite.prom")
package metrics
