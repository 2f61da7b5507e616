package cv

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	d := New()
	require.Len(t, d.Experience, 1)
	require.Len(t, d.Education, 1)
	require.NotEmpty(t, d.Experience[0].ID)
	require.NotEmpty(t, d.Education[0].ID)
	assert.Empty(t, d.Experience[0].JobTitle)
	assert.Empty(t, d.Summary)
}

func TestSetField_PersonalSummarySkills(t *testing.T) {
	d := New()
	require.NoError(t, d.SetField(SectionPersonalInfo, "fullName", "Ann Lee"))
	require.NoError(t, d.SetField(SectionPersonalInfo, "email", "ann@x.com"))
	require.NoError(t, d.SetField(SectionPersonalInfo, "phone", "555"))
	require.NoError(t, d.SetField(SectionPersonalInfo, "address", "Paris"))
	require.NoError(t, d.SetField(SectionSkills, "", "Go, Rust"))
	require.NoError(t, d.SetField(SectionSummary, "", "Builder of things"))

	assert.Equal(t, PersonalInfo{FullName: "Ann Lee", Email: "ann@x.com", Phone: "555", Address: "Paris"}, d.PersonalInfo)
	assert.Equal(t, "Go, Rust", d.Skills)
	assert.Equal(t, "Builder of things", d.Summary)

	err := d.SetField(SectionPersonalInfo, "nickname", "x")
	require.ErrorIs(t, err, ErrUnknownField)
	err = d.SetField("hobbies", "", "x")
	require.ErrorIs(t, err, ErrUnknownField)
}

func TestSetField_SummaryIsTruncated(t *testing.T) {
	d := New()
	long := strings.Repeat("é", MaxSummaryLength+120)
	require.NoError(t, d.SetField(SectionSummary, "", long))
	assert.Equal(t, MaxSummaryLength, len([]rune(d.Summary)))

	exact := strings.Repeat("a", MaxSummaryLength)
	require.NoError(t, d.SetField(SectionSummary, "", exact))
	assert.Equal(t, exact, d.Summary)
}

func TestSetField_EntryFields(t *testing.T) {
	d := New()
	expID := d.Experience[0].ID
	eduID := d.Education[0].ID

	require.NoError(t, d.SetField(SectionExperience, expID+".jobTitle", "Engineer"))
	require.NoError(t, d.SetField(SectionExperience, expID+".endDate", "2024"))
	require.NoError(t, d.SetField(SectionEducation, eduID+".degree", "MSc"))
	assert.Equal(t, "Engineer", d.Experience[0].JobTitle)
	assert.Equal(t, "2024", d.Experience[0].EndDate)
	assert.Equal(t, "MSc", d.Education[0].Degree)

	require.ErrorIs(t, d.SetField(SectionExperience, "nope.jobTitle", "x"), ErrEntryNotFound)
	require.ErrorIs(t, d.SetField(SectionExperience, expID+".salary", "x"), ErrUnknownField)
	require.ErrorIs(t, d.SetField(SectionEducation, "missing-dot", "x"), ErrUnknownField)

	var fe *FieldError
	require.True(t, errors.As(d.SetField(SectionEducation, eduID+".gpa", "4"), &fe))
	assert.Equal(t, SectionEducation, fe.Section)
}

func TestAddAndRemoveEntries(t *testing.T) {
	d := New()
	first := d.Experience[0].ID
	added := d.AddExperience()
	require.Len(t, d.Experience, 2)
	require.NotEqual(t, first, added.ID)
	assert.Equal(t, ExperienceEntry{ID: added.ID}, d.Experience[1])

	require.NoError(t, d.RemoveExperience(first))
	require.Len(t, d.Experience, 1)
	assert.Equal(t, added.ID, d.Experience[0].ID)

	// the last entry stays
	require.ErrorIs(t, d.RemoveExperience(added.ID), ErrLastEntry)
	require.Len(t, d.Experience, 1)
	assert.Equal(t, added.ID, d.Experience[0].ID)

	require.ErrorIs(t, d.RemoveExperience("unknown"), ErrEntryNotFound)

	edu := d.AddEducation()
	require.Len(t, d.Education, 2)
	require.NoError(t, d.RemoveEducation(edu.ID))
	require.ErrorIs(t, d.RemoveEducation(d.Education[0].ID), ErrLastEntry)
	require.Len(t, d.Education, 1)
}

func TestRemove_KeepsOrderAndIDs(t *testing.T) {
	d := New()
	a := d.Experience[0].ID
	b := d.AddExperience().ID
	c := d.AddExperience().ID
	require.NoError(t, d.SetExperienceField(c, "company", "Acme"))

	require.NoError(t, d.RemoveExperience(b))
	require.Len(t, d.Experience, 2)
	assert.Equal(t, a, d.Experience[0].ID)
	assert.Equal(t, c, d.Experience[1].ID)
	assert.Equal(t, "Acme", d.Experience[1].Company)
}

func TestAddedIDsAreUnique(t *testing.T) {
	d := New()
	seen := map[string]bool{d.Experience[0].ID: true}
	for i := 0; i < 50; i++ {
		id := d.AddExperience().ID
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestReset(t *testing.T) {
	d := New()
	d.AddExperience()
	require.NoError(t, d.SetField(SectionPersonalInfo, "fullName", "X"))
	d.Reset()
	assert.Empty(t, d.PersonalInfo.FullName)
	assert.Len(t, d.Experience, 1)
	assert.Len(t, d.Education, 1)
}

func TestClone_IsIndependent(t *testing.T) {
	d := New()
	c := d.Clone()
	c.Experience[0].JobTitle = "changed"
	assert.Empty(t, d.Experience[0].JobTitle)
}

func TestValidateForRender(t *testing.T) {
	d := New()
	err := d.ValidateForRender()
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, []string{"fullName", "email"}, ve.Missing)

	d.PersonalInfo.FullName = "   "
	d.PersonalInfo.Email = "ann@x.com"
	require.True(t, errors.As(d.ValidateForRender(), &ve))
	assert.Equal(t, []string{"fullName"}, ve.Missing)

	d.PersonalInfo.FullName = "Ann Lee"
	require.NoError(t, d.ValidateForRender())
}

func TestSuggestedFilename(t *testing.T) {
	got := SuggestedFilename("Jane Q. Public")
	assert.Equal(t, "Jane_Q._Public_CV.pdf", got)
	assert.Contains(t, got, "Jane_Q._Public")
	assert.NotContains(t, got, " ")
	assert.Equal(t, "Ann_Lee_CV.pdf", SuggestedFilename("Ann \t Lee"))

	assert.Equal(t, "cv_data.json", ExportFilename("  "))
	assert.Equal(t, "Ann Lee_data.json", ExportFilename("Ann Lee"))
}
