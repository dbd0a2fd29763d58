// Package telemetry is the broker-facing device link of dripguard-server.
//
// The IV pump publishes each sensor on its own subject (<prefix>.temperature,
// .flow, .fsr, .status, .fault). Link subscribes to all five, merges the
// latest value per subject into one Sample, and invokes the registered
// handler once per inbound message — ingestion is reactive, never polled.
// Values that fail to parse clear their field so validation downstream sees
// them as absent.
//
// Outbound, Link publishes actuation commands on <prefix>.cmd.stop/.start/
// .flow. The connection reconnects forever with a fixed wait; messages
// arriving while disconnected are simply missed (the link is an at-most-once
// channel by design).
//
// NATS dispatches each subscription on its own goroutine, so handler
// invocations can overlap. The merged state is mutex-guarded here and the
// downstream pipeline is written to tolerate overlapping runs.
package telemetry
