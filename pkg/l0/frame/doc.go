// Package frame provides the byte framing used on device serial links.
package frame

// A frame on the wire is
//
//	header | payload | checksum | terminator
//
// where every part except payload is optional and fixed per device family.
// The checksum is an XOR (LRC) over the payload bytes only, optionally
// seeded with a non-zero byte. The terminator is a sentinel byte which must
// not appear inside the payload.
