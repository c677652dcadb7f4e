// Package dispatch maps trigger tokens to note pulses on the output port.
//
// A recognized token becomes a Note On, a short hold, and a matching Note
// Off on the channel fixed at construction. Unrecognized tokens and
// triggers arriving while no port is open are silently ignored (debug log
// only): they are not protocol errors. A send failure tears the port down
// immediately so later triggers do not retry against a broken handle; only
// a restart re-opens the device.
package dispatch
