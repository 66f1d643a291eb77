// Package layout plans the byte layout of a bplist00 file.
//
// Object references and offsets are written with the smallest width that
// fits the file being produced, so container sizes depend on the final
// object count. Planning therefore runs as two stages after flattening:
//
//  1. RefWidth from the object count.
//  2. Object sizes with that ref width, accumulated into offsets; the
//     offset width covers the start of the offset table.
//
// The offset width never changes an object's own length, so no further
// iteration is needed.
//
//	┌──────────┬──────────────────────┬──────────────┬───────────┐
//	│ bplist00 │ objects (table order) │ offset table │ trailer   │
//	│ 8 bytes  │ Sizes[i] each         │ n × OffsetW  │ 32 bytes  │
//	└──────────┴──────────────────────┴──────────────┴───────────┘
package layout
