// Package xz decompresses xz streams through the system xz binary.
package xz

// Rotated logs of busy relays reach several gigabytes once decompressed, so output is streamed
// rather than buffered.
const name = "xz"
