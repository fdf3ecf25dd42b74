// Package gpio drives the confirm button, its indicator LED and the lock
// solenoid through the Raspberry Pi GPIO registers.
package gpio
