// Package pipeline orchestrates one telemetry sample end to end:
// validate → resolve patient baseline → score → actuate → persist → broadcast.
//
// Each inbound message triggers exactly one Process call; there is no
// polling. Processing is terminal on the first hard error (invalid sample,
// unresolvable baseline, scoring fault) but the tail steps are independent:
// a failed persistence write never blocks the broadcast and vice versa.
// Nothing that happens inside Process can take the server down — every
// failure is logged, counted and contained to the current sample.
package pipeline
