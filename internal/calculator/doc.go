// Package calculator holds the pure balance and netting computations.
//
// Every function here is a reduction over immutable snapshots of entity
// collections: no storage access, no mutation of inputs, safe to call
// concurrently. Callers load the entities, the calculator does the math.
package calculator
