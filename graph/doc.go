// Package graph flattens a canonical value tree into the object table of a
// binary property list.
//
// Every visited node gets the next free table index. Containers are
// indexed after their children (post-order), so a container's body can
// refer to its children by index. Dictionaries visit their children
// pair-wise (key, value) and record all key indices followed by all value
// indices.
//
// With uniquing enabled, equal leaves share one slot. Equality is keyed on
// the value's kind and content bytes, never across kinds: true and 1 stay
// distinct. Containers are never shared.
//
// The traversal uses an explicit stack; a container reachable from itself
// fails with errors.KindCyclicReference.
package graph
