package loans

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// LabMap is the program-of-study to permitted-lab table.
// Lookups ignore case, surrounding whitespace and Unicode composition.
type LabMap struct {
	labs map[string]string
}

func NewLabMap(programToLab map[string]string) LabMap {
	m := LabMap{labs: make(map[string]string, len(programToLab))}
	for program, lab := range programToLab {
		m.labs[normalizeProgram(program)] = strings.TrimSpace(lab)
	}
	return m
}

func normalizeProgram(s string) string {
	s = norm.NFC.String(s)
	s = strings.Join(strings.Fields(s), " ")
	return cases.Fold().String(s)
}

// AllowedLab returns the lab a program may book. ok is false for unmapped programs.
func (m LabMap) AllowedLab(program string) (lab string, ok bool) {
	lab, ok = m.labs[normalizeProgram(program)]
	return lab, ok
}

func (m LabMap) Len() int { return len(m.labs) }
