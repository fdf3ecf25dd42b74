// Package audio plays pre-decoded WAV clips through the beep speaker.
//
// Every clip is decoded once into memory at the engine sample rate. Playing
// a clip restarts it; the previous run of the same clip is cut off, other
// clips keep sounding through the shared mixer.
package audio
