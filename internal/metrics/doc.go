// Package metrics records what blogkit's asset stages did.
//
// Stages receive a Recorder and default to NoopRecorder. The CLI swaps in a
// PrometheusRecorder when --metrics-file is set and writes the registry in
// node-exporter textfile format after the run:
//
//	rec := metrics.NewPrometheusRecorder(nil)
//	stats, err := images.ResizeTree(ctx, root, images.Options{Recorder: rec})
//	...
//	err = rec.WriteTextfile("/var/lib/node_exporter/blogkit.prom")
package metrics
