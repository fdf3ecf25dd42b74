// Package puzzle contains the game rules of the sound lock.
//
// It defines the per-session state (cells, sequence progress, actuator) and
// the pure per-tick update that turns button presses into LED, solenoid and
// audio decisions. Nothing here touches hardware; the service layer feeds
// inputs in and applies outputs.
package puzzle
