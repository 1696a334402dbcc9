package fwpkg

import "github.com/SDICurie/main/chunkdiff"

// ComponentSpec is the build-time description of one component image,
// supplied by the caller (spec.md §3.1). Offset is deliberately absent:
// Builder computes it while laying out the payload region.
type ComponentSpec struct {
	Magic      [3]byte
	Type       uint8
	SourcePath string // raw image (full mode) or pre-built diff stream (incremental mode)
	Version    uint32

	// Patch is set by incremental.Builder before handing a ComponentSpec
	// to fwpkg.Builder in incremental mode: the chunkdiff.Manifest for
	// this component's diff stream, embedded in the description document.
	Patch *chunkdiff.Manifest
}

// componentRecord is one entry of a description document's "binaries"
// array (spec §4.4 step 5, §6.3).
type componentRecord struct {
	Magic            string              `json:"magic"`
	Type             uint8               `json:"type"`
	Version          uint32              `json:"version"`
	Offset           uint32              `json:"offset"`
	Length           uint32              `json:"length"`
	LengthCompressed uint32              `json:"length_compressed"`
	Ratio            string              `json:"ratio"`
	Patch            *chunkdiff.Manifest `json:"patch,omitempty"`
}
