// Package common holds helpers shared by several services.
//
// It opens the grid and the actuator lines for the configured driver, sets
// up the journal logger and loads the soundboard through the audio engine.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
