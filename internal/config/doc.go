// Package config defines the installation settings of the sound lock and
// provides helpers to load, validate and save them in YAML format.
//
// Settings only describe wiring (bus, pins, file locations, audio buffer);
// the game rules are compile-time constants of the puzzle package.
package config
