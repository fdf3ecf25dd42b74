// Package puzzle runs the sound lock: it wires the grid, the actuator lines
// and the soundboard to a game session and drives it from a fixed-period
// polling loop.
//
// Everything that happens in the session is published on an event bus;
// the journal and the metrics recorder are subscribers.
package puzzle
