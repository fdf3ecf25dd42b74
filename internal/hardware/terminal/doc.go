// Package terminal draws the grid and the actuator lines in a terminal so
// the puzzle can be played without any hardware attached.
//
// Keys 1234/qwer/asdf/zxcv are the grid rows, space latches the confirm
// button and Esc or Ctrl-C quits.
package terminal
