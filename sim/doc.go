// Package sim implements the schedulability kernel for a hierarchical real-time
// scheduling model: cores, components, and periodic/sporadic tasks arranged in a
// strict tree, plus the Demand/Supply Kernel and Feasibility Tester that the
// sim/synth and sim/engine packages build on.
//
// # Reading Guide
//
// Start with these files to understand the model and the math:
//   - model.go: Core, Task (periodic/sporadic variant), Component, SystemModel
//   - errors.go: the error kinds raised across ingestion, synthesis, and simulation
//   - kernel.go: dbf_edf, dbf_fps, sbf_bdr, and the Half-Half transform
//   - feasibility.go: IsSchedulable, the DBF ≤ SBF test over a component's check points
//
// # Architecture
//
// sim defines the data model and the pure kernel; the rest of the analyzer lives in
// sibling packages:
//   - sim/synth: bottom-up (α, Δ) interface synthesis over the component tree
//   - sim/engine: the event-driven simulator
//   - sim/trace: execution-log recording and summarization
//   - sim/ingest: JSON/CSV/YAML SystemModel loading
package sim
