package textrules

import "strings"

// MojibakePair maps one known byte-misinterpretation sequence to the
// character it originally encoded.
type MojibakePair struct {
	Bad  string
	Good string
}

// MojibakeTable is an ordered replacement table. Order is fixed so repairs
// are deterministic.
type MojibakeTable struct {
	pairs    []MojibakePair
	replacer *strings.Replacer
}

// NewMojibakeTable builds a table from the given pairs.
func NewMojibakeTable(pairs []MojibakePair) *MojibakeTable {
	oldnew := make([]string, 0, len(pairs)*2)
	for _, p := range pairs {
		oldnew = append(oldnew, p.Bad, p.Good)
	}
	return &MojibakeTable{pairs: pairs, replacer: strings.NewReplacer(oldnew...)}
}

// Detect reports whether any known bad sequence occurs in text.
func (t *MojibakeTable) Detect(text string) bool {
	for _, p := range t.pairs {
		if strings.Contains(text, p.Bad) {
			return true
		}
	}
	return false
}

// Repair replaces every known bad sequence with its correct character.
func (t *MojibakeTable) Repair(text string) string {
	return t.replacer.Replace(text)
}

// DefaultMojibake returns the table of UTF-8 sequences misread as
// Windows-1252, as observed in historical imports.
func DefaultMojibake() *MojibakeTable {
	return NewMojibakeTable([]MojibakePair{
		{"Ã©", "é"}, {"Ã¨", "è"}, {"Ã ", "à"},
		{"Ã¢", "â"}, {"Ã¯", "ï"}, {"Ã´", "ô"},
		{"Ã¼", "ü"}, {"Ã±", "ñ"}, {"Ã§", "ç"},
		{"Ã­", "í"}, {"Ã«", "ë"}, {"Ã®", "î"},
		{"Ã‰", "É"}, {"Ã", "É"},
		{"â€“", "—"}, {"â€™", "’"},
		{"â€œ", "“"}, {"â€¦", "…"},
	})
}
