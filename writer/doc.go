// Package writer serializes a flattened object table into bplist00 bytes.
//
// Serialize is a pure function of the table and its layout plan: it writes
// the magic, every object in table order, the offset table and the
// 32-byte trailer. Each object's start offset is checked against the plan;
// any mismatch or overflow fails the call and no bytes are returned.
//
// Trailer layout:
//
//	Offset  Size  Field
//	──────────────────────────────
//	0       5     unused (zero)
//	5       1     sort version (zero)
//	6       1     offset width
//	7       1     ref width
//	8       8     object count
//	16      8     root object index
//	24      8     offset table start
package writer
