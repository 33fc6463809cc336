// Package batch splits a slice of work items into fixed-size batches and
// runs a callback over them, sequentially or with bounded concurrency.
//
// Fleet evaluation uses it to evaluate ships in parallel while keeping each
// result at its input position.
package batch
