package model

// Mode selects which category vocabulary is active.
type Mode string

const (
	ModeWork  Mode = "work"
	ModeStudy Mode = "study"
)

var workCategories = []string{"Work", "Meeting", "Project", "Other"}
var studyCategories = []string{"Reading", "Writing", "Math", "Science", "History", "Other"}

// Categories returns the fixed category vocabulary for the mode.
// The returned slice must not be mutated.
func (m Mode) Categories() []string {
	if m == ModeStudy {
		return studyCategories
	}
	return workCategories
}

// Valid reports whether category belongs to the mode's vocabulary.
// An empty category is allowed: drafts may be saved before a category
// has been picked.
func (m Mode) Valid(category string) bool {
	if category == "" {
		return true
	}
	for _, c := range m.Categories() {
		if c == category {
			return true
		}
	}
	return false
}

// Toggle flips between work and study mode.
func (m Mode) Toggle() Mode {
	if m == ModeWork {
		return ModeStudy
	}
	return ModeWork
}

// Label returns the display title for the mode.
func (m Mode) Label() string {
	if m == ModeStudy {
		return "Study Task Manager"
	}
	return "Work Task Manager"
}
