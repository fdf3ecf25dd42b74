// Package integration holds end-to-end tests that run a whole session from
// clip files on disk to the actuator lines, with only the devices faked.
package integration
