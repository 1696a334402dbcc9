// Package fwpkg assembles and parses full OTA packages: a 28-byte outer
// header, a table of component descriptors, and a payload region, per
// the on-disk layout codec implements.
package fwpkg

// Identity names the chip/board/project a package targets, carried
// through to the description document. Board and Project default to
// "<chip>-all-boards" and "<board>-all-projects" when left empty,
// matching how chip-level packages widen to board- and project-level
// ones when no narrower tag was supplied.
type Identity struct {
	Project string
	Board   string
	Chip    string
}

// Resolve fills in Board and Project when left empty, deriving them
// from Chip (and then Board) the way an unscoped chip package widens
// into a catch-all board/project package.
func (id Identity) Resolve() Identity {
	if id.Board == "" {
		id.Board = id.Chip + "-all-boards"
	}
	if id.Project == "" {
		id.Project = id.Board + "-all-projects"
	}

	return id
}
