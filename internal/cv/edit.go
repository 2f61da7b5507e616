package cv

import (
	"strings"
)

// Sections accepted by SetField.
const (
	SectionPersonalInfo = "personalInfo"
	SectionSummary      = "summary"
	SectionSkills       = "skills"
	SectionExperience   = "experience"
	SectionEducation    = "education"
)

// SetField updates one scalar field.
//
// personalInfo takes fullName, email, phone or address as key. summary and
// skills ignore the key. experience and education address an entry field as
// "<entry id>.<field>", for example "4b1e….jobTitle". The summary is
// truncated to MaxSummaryLength characters instead of being rejected.
func (d *Document) SetField(section, key, value string) error {
	switch section {
	case SectionPersonalInfo:
		return d.setPersonal(key, value)
	case SectionSummary:
		d.Summary = truncateSummary(value)
		return nil
	case SectionSkills:
		d.Skills = value
		return nil
	case SectionExperience:
		id, field, ok := splitEntryKey(key)
		if !ok {
			return &FieldError{Section: section, Key: key, Err: ErrUnknownField}
		}
		return d.SetExperienceField(id, field, value)
	case SectionEducation:
		id, field, ok := splitEntryKey(key)
		if !ok {
			return &FieldError{Section: section, Key: key, Err: ErrUnknownField}
		}
		return d.SetEducationField(id, field, value)
	}
	return &FieldError{Section: section, Key: key, Err: ErrUnknownField}
}

func (d *Document) setPersonal(key, value string) error {
	switch key {
	case "fullName":
		d.PersonalInfo.FullName = value
	case "email":
		d.PersonalInfo.Email = value
	case "phone":
		d.PersonalInfo.Phone = value
	case "address":
		d.PersonalInfo.Address = value
	default:
		return &FieldError{Section: SectionPersonalInfo, Key: key, Err: ErrUnknownField}
	}
	return nil
}

// SetExperienceField updates one field of the experience entry with the given id.
func (d *Document) SetExperienceField(id, field, value string) error {
	i := d.experienceIndex(id)
	if i < 0 {
		return &FieldError{Section: SectionExperience, Key: id, Err: ErrEntryNotFound}
	}
	e := &d.Experience[i]
	switch field {
	case "jobTitle":
		e.JobTitle = value
	case "company":
		e.Company = value
	case "startDate":
		e.StartDate = value
	case "endDate":
		e.EndDate = value
	case "description":
		e.Description = value
	default:
		return &FieldError{Section: SectionExperience, Key: id + "." + field, Err: ErrUnknownField}
	}
	return nil
}

// SetEducationField updates one field of the education entry with the given id.
func (d *Document) SetEducationField(id, field, value string) error {
	i := d.educationIndex(id)
	if i < 0 {
		return &FieldError{Section: SectionEducation, Key: id, Err: ErrEntryNotFound}
	}
	e := &d.Education[i]
	switch field {
	case "degree":
		e.Degree = value
	case "institution":
		e.Institution = value
	case "graduationYear":
		e.GraduationYear = value
	default:
		return &FieldError{Section: SectionEducation, Key: id + "." + field, Err: ErrUnknownField}
	}
	return nil
}

// AddExperience appends an empty entry with a fresh id.
func (d *Document) AddExperience() ExperienceEntry {
	e := ExperienceEntry{ID: newEntryID()}
	d.Experience = append(d.Experience, e)
	return e
}

// AddEducation appends an empty entry with a fresh id.
func (d *Document) AddEducation() EducationEntry {
	e := EducationEntry{ID: newEntryID()}
	d.Education = append(d.Education, e)
	return e
}

// RemoveExperience drops the entry with the given id. The list never goes
// below one entry: in that case nothing changes and ErrLastEntry is returned.
func (d *Document) RemoveExperience(id string) error {
	i := d.experienceIndex(id)
	if i < 0 {
		return ErrEntryNotFound
	}
	if len(d.Experience) <= 1 {
		return ErrLastEntry
	}
	d.Experience = append(d.Experience[:i:i], d.Experience[i+1:]...)
	return nil
}

// RemoveEducation drops the entry with the given id, with the same
// last-entry rule as RemoveExperience.
func (d *Document) RemoveEducation(id string) error {
	i := d.educationIndex(id)
	if i < 0 {
		return ErrEntryNotFound
	}
	if len(d.Education) <= 1 {
		return ErrLastEntry
	}
	d.Education = append(d.Education[:i:i], d.Education[i+1:]...)
	return nil
}

func (d *Document) experienceIndex(id string) int {
	for i := range d.Experience {
		if d.Experience[i].ID == id {
			return i
		}
	}
	return -1
}

func (d *Document) educationIndex(id string) int {
	for i := range d.Education {
		if d.Education[i].ID == id {
			return i
		}
	}
	return -1
}

// splitEntryKey splits "<id>.<field>" on the last dot.
func splitEntryKey(key string) (id, field string, ok bool) {
	i := strings.LastIndex(key, ".")
	if i <= 0 || i == len(key)-1 {
		return "", "", false
	}
	return key[:i], key[i+1:], true
}

func truncateSummary(s string) string {
	r := []rune(s)
	if len(r) <= MaxSummaryLength {
		return s
	}
	return string(r[:MaxSummaryLength])
}
