package domain

// Subjects offered on the platform. The subject-change endpoint only accepts
// these names.
var subjectCatalog = map[string]struct{}{
	"Phonics": {},
	"English": {},
	"Math":    {},
	"Science": {},
	"Coding":  {},
}

// ValidSubject reports whether name is a known subject.
func ValidSubject(name string) bool {
	_, ok := subjectCatalog[name]
	return ok
}
