// Package sim provides the core trace-driven cache model.
//
// # Reading Guide
//
// Start with these three files to understand the model:
//   - config.go: cache geometry (size, block size, associativity) and validation
//   - set.go: cache lines, per-set LRU lookup and replacement
//   - cache.go: the per-access state machine (decode, probe, fill, write policy)
//
// # Architecture
//
// The sim package is the synchronous core: Cache.Access consumes one address at a
// time and updates Metrics. Everything around it lives in sub-packages:
//   - sim/trace: memory-trace record type and the text trace reader/writer
//   - sim/workload: deterministic synthetic address-trace generation
//
// The core never reads files and never calls back into its caller; trace delivery
// order is the caller's responsibility and fully determines the results.
package sim
