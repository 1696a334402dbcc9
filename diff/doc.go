// Package diff implements the binary-diff adapter (component C): a thin
// contract around an external bsdiff engine, producing the opaque patch
// blobs chunkdiff compares against whole-chunk compression.
//
// The patch format itself is opaque to this module — it must be exactly
// what the on-device applier (bspatch, out of scope here) expects — so
// Engine only specifies the shape of the call, not the wire format.
package diff
