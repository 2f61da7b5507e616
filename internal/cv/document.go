// Package cv holds the résumé document model edited by the CV builder:
// personal details, a summary, ordered experience and education entries and
// a comma-delimited skills line.
package cv

import (
	"github.com/google/uuid"
)

// MaxSummaryLength caps the summary, counted in characters (runes).
const MaxSummaryLength = 500

// PersonalInfo is the header block of a CV.
type PersonalInfo struct {
	FullName string `json:"fullName" bson:"fullName"`
	Email    string `json:"email" bson:"email"`
	Phone    string `json:"phone,omitempty" bson:"phone,omitempty"`
	Address  string `json:"address,omitempty" bson:"address,omitempty"`
}

// ExperienceEntry is one position in the work history.
type ExperienceEntry struct {
	ID          string `json:"id" bson:"id"`
	JobTitle    string `json:"jobTitle" bson:"jobTitle"`
	Company     string `json:"company" bson:"company"`
	StartDate   string `json:"startDate" bson:"startDate"`
	EndDate     string `json:"endDate" bson:"endDate"`
	Description string `json:"description" bson:"description"`
}

// EducationEntry is one degree.
type EducationEntry struct {
	ID             string `json:"id" bson:"id"`
	Degree         string `json:"degree" bson:"degree"`
	Institution    string `json:"institution" bson:"institution"`
	GraduationYear string `json:"graduationYear" bson:"graduationYear"`
}

// Document is the full CV as edited by one session.
type Document struct {
	PersonalInfo PersonalInfo      `json:"personalInfo" bson:"personalInfo"`
	Summary      string            `json:"summary" bson:"summary"`
	Experience   []ExperienceEntry `json:"experience" bson:"experience"`
	Education    []EducationEntry  `json:"education" bson:"education"`
	Skills       string            `json:"skills" bson:"skills"`
}

// New returns a document with one empty experience and one empty education entry.
func New() *Document {
	d := &Document{}
	d.Reset()
	return d
}

// Reset restores the defaults in place.
func (d *Document) Reset() {
	*d = Document{
		Experience: []ExperienceEntry{{ID: newEntryID()}},
		Education:  []EducationEntry{{ID: newEntryID()}},
	}
}

// Clone returns a deep copy; the renderer and the stores work on clones so
// the editing session stays the only owner of its document.
func (d *Document) Clone() Document {
	out := *d
	out.Experience = append([]ExperienceEntry(nil), d.Experience...)
	out.Education = append([]EducationEntry(nil), d.Education...)
	return out
}

func newEntryID() string {
	return uuid.NewString()
}
