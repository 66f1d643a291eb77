// Package format holds the bplist00 wire constants and the sizing rules
// shared by the layout planner and the serializer.
//
// # Object Encoding
//
// Every object starts with a marker byte: the type nibble in the high bits
// and a length or width code in the low bits.
//
//	Marker   Object
//	──────────────────────────────────────────────
//	0x00     null
//	0x08     false
//	0x09     true
//	0x1n     integer, 2^n big-endian bytes
//	0x2n     real, 2^n big-endian bytes (n = 2 or 3)
//	0x33     date, float64 seconds since 2001-01-01
//	0x4n     data, n bytes
//	0x5n     ASCII string, n bytes
//	0x6n     UTF-16BE string, n code units
//	0x8n     UID, n+1 big-endian bytes
//	0xAn     array, n object refs
//	0xDn     dictionary, n key refs then n value refs
//
// A length nibble of 0xF means the count follows as an integer object.
//
// # Integer Widths
//
// CoreFoundation reads 1, 2 and 4 byte integers as unsigned and 8 and 16
// byte integers as signed. Negative values therefore always take 8 bytes
// (or 16 when they do not fit int64).
package format
