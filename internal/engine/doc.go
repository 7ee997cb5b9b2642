// Package engine provides interchangeable implementations of the ALU
// contract. The sequential engine ticks the clocked datapath the way the
// hardware would run; the combinational engine evaluates the ripple cores
// in one step; the native engine recomputes the contract with machine
// arithmetic and serves as the comparison oracle. A registry exposes the
// implementations by name for selection and cross-validation runs.
package engine
