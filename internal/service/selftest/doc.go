// Package selftest lights the grid in a fixed pattern so a technician can
// spot dead LEDs and miswired rows before the puzzle starts.
package selftest
