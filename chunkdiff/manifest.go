package chunkdiff

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/SDICurie/main/errs"
)

// ChunkRecord is one chunk's entry in a Manifest's Chunks map, matching
// spec §4.3's field list exactly.
type ChunkRecord struct {
	ID          int    `json:"_id"`
	Type        uint8  `json:"_type"`
	Name        string `json:"_name"`
	CRCFrom     string `json:"crc_from"`
	CRCTo       string `json:"crc_to"`
	CRCHeader   string `json:"crc_header"`
	ChunkHeader string `json:"chunk_header"` // CRC-32 of the concatenated header+payload temp file
	SizeOutput  int    `json:"size_output"`  // header + payload bytes
	SizeInput   int    `json:"size_input"`   // len(to chunk)
	Ratio       string `json:"ratio"`
	Delta       int    `json:"delta"` // size_output - size_input
}

// Manifest is the JSON sidecar describing a diff stream's contents and
// size metrics (spec §3.5, §4.3, §6.2).
type Manifest struct {
	ChunkSize         int                    `json:"chunk_size"`
	Name              string                 `json:"_name"`
	Size              int                    `json:"size"`
	SizePatch         int                    `json:"size_patch"`
	SizeCompressed    int                    `json:"size_compressed"`
	SizeOriginal      int                    `json:"size_original"`
	CRC               string                 `json:"crc"`
	GainVsOriginal    int                    `json:"gain_vs_original"`
	GainVsCompressed  int                    `json:"gain_vs_compressed"`
	RatioVsOriginal   string                 `json:"ratio_vs_original"`
	RatioVsCompressed string                 `json:"ratio_vs_compressed"`
	Chunks            map[string]ChunkRecord `json:"chunks"`
}

// fixed5 formats a ratio with exactly five digits after the decimal
// point, matching the original's "%0.5f" formatting (spec §6.5).
func fixed5(num, den int) string {
	if den == 0 {
		return "0.00000"
	}

	return fmt.Sprintf("%.5f", float64(num)/float64(den))
}

// hex32 formats a CRC-32 value as lowercase "0x…" hex, unpadded
// (spec §6.5).
func hex32(v uint32) string {
	return fmt.Sprintf("0x%x", v)
}

// writeManifestJSON serializes m to path with four-space indentation,
// matching the description-file convention used elsewhere in a package
// (spec §6.3). Struct field order and Go's sorted map-key encoding of
// Chunks together satisfy the manifest's deterministic-ordering
// requirement without any extra bookkeeping.
func writeManifestJSON(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "    ")
	if err != nil {
		return errs.Wrap(errs.KindIo, path, err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errs.Wrap(errs.KindIo, path, err)
	}

	return nil
}
