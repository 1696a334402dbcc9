package fwpkg

import (
	"encoding/json"
	"os"

	"github.com/SDICurie/main/errs"
)

// headerRecord mirrors the outer header fields plus two derived values,
// for the description document's "header" object (spec §6.3).
type headerRecord struct {
	HeaderVersion         uint8  `json:"header_version"`
	HeaderLength          uint16 `json:"header_length"`
	Platform              uint16 `json:"platform"`
	CRC                   uint32 `json:"crc"`
	PayloadLength         uint32 `json:"payload_length"`
	PayloadOriginalLength uint32 `json:"payload_original_length"`
	Ratio                 string `json:"ratio"`
	Version               uint32 `json:"version"`
	MinVersion            uint32 `json:"min_version"`
	AppMinVersion         uint32 `json:"app_min_version"`
}

// packageDoc is the "package" object at the top of a description
// document.
type packageDoc struct {
	Project     string            `json:"project"`
	Board       string            `json:"board"`
	Chip        string            `json:"chip"`
	Incremental bool              `json:"incremental"`
	Header      headerRecord      `json:"header"`
	Binaries    []componentRecord `json:"binaries"`
	Metrics     Metrics           `json:"metrics"`
}

// DescriptionDoc is the full JSON sidecar written alongside a package
// when Builder.Config.DescriptionFile is set (spec §4.4 step 5, §6.3).
// Struct field order, not map iteration, is what keeps its top-level
// keys deterministic; Binaries is a slice in declaration order, so no
// extra sorting step is needed there either.
type DescriptionDoc struct {
	Package packageDoc `json:"package"`
}

func writeDescriptionJSON(path string, doc DescriptionDoc) error {
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return errs.Wrap(errs.KindIo, path, err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errs.Wrap(errs.KindIo, path, err)
	}

	return nil
}
