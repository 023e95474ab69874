package changelog

// Section is the text of one category within a fragment or entry.
// An empty Category holds text that appears before any category header.
type Section struct {
	Category   string
	Paragraphs []string
}

// Fragment is a parsed fragment file.
type Fragment struct {
	Path     string
	Sections []Section
}

// Entry is one collected changelog entry, ready to render.
type Entry struct {
	Title    string
	Sections []Section
}

// IsEmpty returns true if no section has any text.
func (e *Entry) IsEmpty() bool {
	for _, s := range e.Sections {
		if len(s.Paragraphs) > 0 {
			return false
		}
	}
	return true
}

// Count returns the total number of paragraphs across all sections.
func (e *Entry) Count() int {
	n := 0
	for _, s := range e.Sections {
		n += len(s.Paragraphs)
	}
	return n
}

// Categories returns the category names of the entry in rendering order.
func (e *Entry) Categories() []string {
	names := make([]string, 0, len(e.Sections))
	for _, s := range e.Sections {
		if s.Category != "" {
			names = append(names, s.Category)
		}
	}
	return names
}
