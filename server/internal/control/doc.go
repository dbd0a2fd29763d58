// Package control implements the closed-loop safety controller.
//
// Controller decides, once per assessed sample, whether to issue an
// automatic stop command to the infusion device. A HIGH_RISK classification
// triggers a stop unless one was already issued within the cooldown window
// (5 seconds by default), so a sustained HIGH_RISK condition cannot flood
// the device with repeated commands.
//
// The last-actuation timestamp is the only piece of shared mutable state in
// the server core. Pipeline runs can overlap when store or broadcast I/O
// suspends, so the timestamp lives behind a mutex: without it, two samples
// racing through MaybeActuate could both issue a stop inside one cooldown
// window. The clock is injectable so tests control time without sleeping.
package control
