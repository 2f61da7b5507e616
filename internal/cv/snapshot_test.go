package cv

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() *Document {
	d := New()
	d.PersonalInfo = PersonalInfo{FullName: "Ann Lee", Email: "ann@x.com", Phone: "+33 1 23", Address: "Lyon"}
	d.Summary = "Backend engineer."
	d.Skills = "Go, Rust"
	d.Experience[0] = ExperienceEntry{ID: d.Experience[0].ID, JobTitle: "Engineer", Company: "Acme", StartDate: "2020", Description: "Built things.\nShipped more."}
	second := d.AddExperience()
	_ = d.SetExperienceField(second.ID, "company", "Globex")
	d.Education[0] = EducationEntry{ID: d.Education[0].ID, Degree: "MSc", Institution: "INSA", GraduationYear: "2019"}
	return d
}

func TestSerialize_RoundTrip(t *testing.T) {
	d := sampleDocument()
	blob, err := d.Serialize()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(blob), "{\n  \"personalInfo\""), "snapshot should be pretty printed")

	var back Document
	require.NoError(t, back.Deserialize(blob))
	assert.Equal(t, *d, back)
}

func TestSerialize_RoundTripWithoutOptionalFields(t *testing.T) {
	d := New()
	d.PersonalInfo.FullName = "Solo"
	d.PersonalInfo.Email = "s@x.io"
	blob, err := d.Serialize()
	require.NoError(t, err)
	got, err := Parse(blob)
	require.NoError(t, err)
	assert.Equal(t, *d, got)
}

func TestDeserialize_MalformedLeavesDocumentUnchanged(t *testing.T) {
	cases := map[string]string{
		"empty":         "",
		"not json":      "{personalInfo:",
		"wrong type":    `{"personalInfo":{"fullName":3},"experience":[],"education":[]}`,
		"missing lists": `{"personalInfo":{"fullName":"a"}}`,
		"entry no id":   `{"personalInfo":{},"experience":[{"jobTitle":"x"}],"education":[]}`,
		"array root":    `[]`,
		"duplicate ids": `{"personalInfo":{},"experience":[{"id":"a"},{"id":"a"}],"education":[{"id":"b"}]}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			d := sampleDocument()
			before := d.Clone()
			err := d.Deserialize([]byte(payload))
			var pe *ParseError
			require.True(t, errors.As(err, &pe), "expected ParseError, got %v", err)
			assert.Equal(t, before, *d)
		})
	}
}

func TestParse_NormalisesImport(t *testing.T) {
	payload := `{"personalInfo":{"fullName":"A","email":"a@b.c"},"summary":"` + strings.Repeat("s", 700) + `","experience":[],"education":[{"id":"e1","degree":"BSc"}],"skills":"Go","extra":true}`
	d, err := Parse([]byte(payload))
	require.NoError(t, err)
	assert.Len(t, []rune(d.Summary), MaxSummaryLength)
	require.Len(t, d.Experience, 1)
	assert.NotEmpty(t, d.Experience[0].ID)
	assert.Equal(t, "e1", d.Education[0].ID)
	assert.Equal(t, "BSc", d.Education[0].Degree)
}

func TestNormalize(t *testing.T) {
	in := Document{
		Summary:    strings.Repeat("a", 520),
		Experience: []ExperienceEntry{{ID: "e1", JobTitle: "Engineer"}},
	}
	out, err := Normalize(in)
	require.NoError(t, err)
	assert.Len(t, out.Summary, 500)
	assert.Equal(t, in.Experience, out.Experience)
	require.Len(t, out.Education, 1)
	assert.NotEmpty(t, out.Education[0].ID)

	in.Experience = append(in.Experience, ExperienceEntry{ID: "e1"})
	_, err = Normalize(in)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, pe.Error(), "duplicate experience id e1")
}
