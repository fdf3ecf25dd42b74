// Package launchpad uses a Novation Launchpad in programmer mode as the
// button grid: the bottom-left 4x4 pads stand in for the Trellis keypad.
//
// Pads are read through a MIDI listener callback and buffered until the
// next poll; LEDs are driven with note-on velocities from the palette.
package launchpad
