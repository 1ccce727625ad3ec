// Package parallel runs independent jobs with bounded concurrency.
//
// WorkerPool is used to render pet frames concurrently: decoding and
// scaling an image dominates startup when an asset directory is set.
package parallel
