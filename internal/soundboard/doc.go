// Package soundboard assigns one audio clip to each grid cell and keeps the
// bookkeeping the puzzle needs: which clip a cell plays and how many ticks
// that clip lasts.
//
// Playback itself is delegated to a Clip implementation; the board only
// triggers and stops.
package soundboard
