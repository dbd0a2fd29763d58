// Package sim generates plausible IV pump telemetry for development and
// demos: a bounded random walk per sensor around configured base values,
// plus the command surface a real pump exposes (stop, start, set flow).
//
// The simulator is deliberately simple. It does not model pharmacology;
// it produces signals in the ranges the risk engine cares about so the
// whole stack can run without hardware.
package sim
