// Package main provides the entry point for blkidx-bench.
//
// blkidx-bench is the microbenchmark driver for the BlkIdx concurrent
// index. It prepopulates an implementation (the sharded table or the
// single-lock baseline), runs writer/reader/eraser workers against it
// for a configured duration, and reports per-category throughput.
//
// Usage:
//
//	blkidx-bench [flags]
//	blkidx-bench --config bench.yaml --compare
//	blkidx-bench --writers 4 --readers 8 --erasers 2 --duration 30s
//
// Configuration merges defaults, a YAML file, BLKIDX_* environment
// variables, and flags, in rising priority.
package main
