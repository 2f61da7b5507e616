// Package render lays a cv.Document out as a paginated A4 PDF.
package render

import (
	"fmt"
	"strings"

	"github.com/jobscout/jobscout/backend/go-services/internal/cv"
)

// Section titles in drawing order.
const (
	TitleSummary    = "PROFESSIONAL SUMMARY"
	TitleExperience = "WORK EXPERIENCE"
	TitleEducation  = "EDUCATION"
	TitleSkills     = "SKILLS"
)

const (
	placeholderPosition = "Position"
	placeholderDegree   = "Degree"
	presentLabel        = "Present"
)

// points to millimetres, with the usual 1.15 leading
const leading = 0.3528 * 1.15

// Result is the rendered PDF together with the layout that produced it.
type Result struct {
	PDF   []byte
	Pages []Page
}

// PageCount is the number of physical pages.
func (r *Result) PageCount() int { return len(r.Pages) }

// Renderer draws documents with a fixed geometry and palette. The zero
// value is not usable; use New or Default.
type Renderer struct {
	geo     Geometry
	palette Palette
}

// New returns a Renderer with the given geometry and palette.
func New(geo Geometry, palette Palette) *Renderer {
	return &Renderer{geo: geo, palette: palette}
}

// Default renders on A4 with the default palette.
var Default = New(A4, DefaultPalette)

// Render lays out doc with the default renderer.
func Render(doc cv.Document) (*Result, error) {
	return Default.Render(doc)
}

// Render lays out doc. It does not validate required fields; missing
// entry titles get placeholder labels. Engine failures are returned as
// *cv.RenderError and no partial output is produced.
func (r *Renderer) Render(doc cv.Document) (res *Result, err error) {
	defer func() {
		if p := recover(); p != nil {
			res, err = nil, &cv.RenderError{Cause: fmt.Errorf("engine panic: %v", p)}
		}
	}()

	c := newCanvas(r.geo, strings.TrimSpace(doc.PersonalInfo.FullName))
	y := r.geo.Margin
	y = r.header(c, y, doc.PersonalInfo)
	if strings.TrimSpace(doc.Summary) != "" {
		y = r.summary(c, y, doc.Summary)
	}
	if len(doc.Experience) > 0 {
		y = r.experience(c, y, doc.Experience)
	}
	if len(doc.Education) > 0 {
		y = r.education(c, y, doc.Education)
	}
	if strings.TrimSpace(doc.Skills) != "" {
		r.skills(c, y, SkillTokens(doc.Skills))
	}
	c.footers(r.palette.LighterGray)

	pdf, err := c.output()
	if err != nil {
		return nil, &cv.RenderError{Cause: err}
	}
	return &Result{PDF: pdf, Pages: c.pages}, nil
}

func (r *Renderer) header(c *Canvas, y float64, info cv.PersonalInfo) float64 {
	width := r.geo.ContentWidth()

	c.setFont(28, true, r.palette.Primary)
	name := c.wrap(info.FullName, width)
	c.lines(name, r.geo.Margin, y, 28*leading)
	y += 12 + float64(len(name)-1)*28*leading

	c.setFont(11, false, r.palette.Accent)
	contact := c.wrap(ContactLine(info), width)
	c.lines(contact, r.geo.Margin, y, 11*leading)
	y += 14 + float64(len(contact)-1)*11*leading

	c.rule(r.geo.Margin, r.geo.PageWidth-r.geo.Margin, y, 0.3, r.palette.SectionLine)
	return y + 18
}

func (r *Renderer) sectionTitle(c *Canvas, y float64, title string) float64 {
	y = c.ensureSpace(y, 20)
	c.setFont(16, true, r.palette.Primary)
	c.text(r.geo.Margin, y, title)
	y += 8
	c.rule(r.geo.Margin, r.geo.PageWidth-r.geo.Margin, y, 0.5, r.palette.SectionLine)
	return y + 12
}

func (r *Renderer) summary(c *Canvas, y float64, summary string) float64 {
	y = r.sectionTitle(c, y, TitleSummary)
	c.setFont(11, false, r.palette.Secondary)
	y = c.lines(c.wrap(summary, r.geo.ContentWidth()), r.geo.Margin, y, 5.5)
	return y + 15
}

func (r *Renderer) experience(c *Canvas, y float64, entries []cv.ExperienceEntry) float64 {
	y = r.sectionTitle(c, y, TitleExperience)
	for i, e := range entries {
		y = c.ensureSpace(y, 28)

		c.setFont(13, true, r.palette.Primary)
		c.text(r.geo.Margin, y, orDefault(e.JobTitle, placeholderPosition))
		c.setFont(11, false, r.palette.Accent)
		c.text(r.geo.Margin, y+6, ExperienceDetails(e))
		y += 14

		if strings.TrimSpace(e.Description) != "" {
			c.setFont(10.5, false, r.palette.Secondary)
			body := c.wrap(e.Description, r.geo.ContentWidth()-2*r.geo.ContentInset)
			y = c.lines(body, r.geo.Margin+r.geo.ContentInset, y, 5)
			y += 12
		}

		if i < len(entries)-1 {
			c.rule(r.geo.Margin, r.geo.Margin+40, y, 0.2, r.palette.SectionLine)
			y += 8
		}
	}
	return y
}

func (r *Renderer) education(c *Canvas, y float64, entries []cv.EducationEntry) float64 {
	y = r.sectionTitle(c, y, TitleEducation)
	for i, e := range entries {
		y = c.ensureSpace(y, 18)

		c.setFont(12, true, r.palette.Primary)
		c.text(r.geo.Margin, y, orDefault(e.Degree, placeholderDegree))
		c.setFont(10.5, false, r.palette.LightGray)
		c.text(r.geo.Margin, y+5, EducationDetails(e))
		y += 14

		if i < len(entries)-1 {
			c.rule(r.geo.Margin, r.geo.Margin+30, y, 0.2, r.palette.SectionLine)
			y += 6
		}
	}
	return y
}

// skills draws the title for any non-blank field, even one made only of
// separators.
func (r *Renderer) skills(c *Canvas, y float64, tokens []string) float64 {
	y = r.sectionTitle(c, y, TitleSkills)
	if len(tokens) == 0 {
		return y + 10
	}
	c.setFont(11, false, r.palette.Secondary)
	y = c.lines(c.wrap(strings.Join(tokens, Separator), r.geo.ContentWidth()), r.geo.Margin, y, 5.5)
	return y + 10
}

// ContactLine joins the non-empty contact fields.
func ContactLine(info cv.PersonalInfo) string {
	var parts []string
	for _, s := range []string{info.Email, info.Phone, info.Address} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, Separator)
}

// ExperienceDetails formats "{company} • {start} - {end}", with "Present"
// for a blank end date.
func ExperienceDetails(e cv.ExperienceEntry) string {
	return e.Company + Separator + e.StartDate + " - " + orDefault(e.EndDate, presentLabel)
}

// EducationDetails formats "{institution} • Graduated {year}", leaving the
// suffix out when the year is blank.
func EducationDetails(e cv.EducationEntry) string {
	if e.GraduationYear == "" {
		return e.Institution
	}
	return e.Institution + Separator + "Graduated " + e.GraduationYear
}

// SkillTokens splits the comma separated skills field, dropping blanks.
func SkillTokens(skills string) []string {
	var out []string
	for _, s := range strings.Split(skills, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func footerLabel(page, total int) string {
	return fmt.Sprintf("Page %d of %d", page, total)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
