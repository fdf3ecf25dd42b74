// Package trellis drives an Adafruit Trellis 4x4 keypad through its
// HT16K33 controller on the I2C bus.
//
// The controller scans the keys and drives the LEDs; this package maps its
// RAM layout to cell indices 0..15 and turns key levels into press edges.
package trellis
