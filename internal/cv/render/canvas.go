package render

import (
	"bytes"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"
)

const fontFamily = "Helvetica"

// pinned so identical documents produce identical bytes
var documentDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// BlockKind tells text blocks from rules.
type BlockKind string

const (
	KindText BlockKind = "text"
	KindRule BlockKind = "rule"
)

// Block is one positioned element drawn on a page. For text, X/Y is the
// baseline origin; for rules, X..X2 at height Y.
type Block struct {
	Kind  BlockKind
	Text  string
	X     float64
	Y     float64
	X2    float64
	Size  float64
	Bold  bool
	Color Color
}

// Page is the recorded content of one physical page.
type Page struct {
	Number int
	Blocks []Block
}

// Texts returns the text blocks of the page in drawing order.
func (p Page) Texts() []string {
	var out []string
	for _, b := range p.Blocks {
		if b.Kind == KindText {
			out = append(out, b.Text)
		}
	}
	return out
}

// Canvas owns the PDF engine and the page record for one render. It is
// handed from section to section; the vertical cursor is passed alongside
// and returned by each step rather than stored here.
type Canvas struct {
	pdf   *fpdf.Fpdf
	tr    func(string) string
	geo   Geometry
	pages []Page
	cur   int // index into pages of the page being drawn

	size  float64
	bold  bool
	color Color
}

func newCanvas(geo Geometry, title string) *Canvas {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(geo.Margin, geo.Margin, geo.Margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreationDate(documentDate)
	pdf.SetModificationDate(documentDate)
	pdf.SetCatalogSort(true)
	pdf.SetCreator("jobscout cv builder", false)
	if title != "" {
		pdf.SetTitle(title, true)
		pdf.SetAuthor(title, true)
	}
	c := &Canvas{pdf: pdf, geo: geo}
	c.tr = pdf.UnicodeTranslatorFromDescriptor("")
	c.addPage()
	return c
}

func (c *Canvas) addPage() {
	c.pdf.AddPage()
	c.pages = append(c.pages, Page{Number: len(c.pages) + 1})
	c.cur = len(c.pages) - 1
	if c.size > 0 {
		c.applyFont()
	}
}

// ensureSpace starts a new page when a block needing required millimetres
// would cross the bottom limit, and returns the cursor to draw at.
func (c *Canvas) ensureSpace(y, required float64) float64 {
	if y+required > c.geo.BottomLimit {
		c.addPage()
		return c.geo.Margin
	}
	return y
}

func (c *Canvas) setFont(size float64, bold bool, col Color) {
	c.size, c.bold, c.color = size, bold, col
	c.applyFont()
}

func (c *Canvas) applyFont() {
	style := ""
	if c.bold {
		style = "B"
	}
	c.pdf.SetFont(fontFamily, style, c.size)
	// SetFont is skipped by the engine when nothing changed, which is wrong
	// after SetPage moved to another content stream.
	c.pdf.SetFontSize(c.size)
	c.pdf.SetTextColor(c.color.R, c.color.G, c.color.B)
}

func (c *Canvas) text(x, y float64, s string) {
	c.pdf.Text(x, y, c.tr(s))
	c.record(Block{Kind: KindText, Text: s, X: x, Y: y, Size: c.size, Bold: c.bold, Color: c.color})
}

func (c *Canvas) rule(x1, x2, y, width float64, col Color) {
	c.pdf.SetDrawColor(col.R, col.G, col.B)
	c.pdf.SetLineWidth(width)
	c.pdf.Line(x1, y, x2, y)
	c.record(Block{Kind: KindRule, X: x1, X2: x2, Y: y, Size: width, Color: col})
}

// lines draws pre-wrapped lines at x from baseline y, lineHeight apart.
// Text that runs past the bottom limit continues on a new page. It returns
// the cursor after the last line.
func (c *Canvas) lines(ls []string, x, y, lineHeight float64) float64 {
	for _, l := range ls {
		if y > c.geo.BottomLimit {
			c.addPage()
			y = c.geo.Margin
		}
		c.text(x, y, l)
		y += lineHeight
	}
	return y
}

func (c *Canvas) stringWidth(s string) float64 {
	return c.pdf.GetStringWidth(c.tr(s))
}

// wrap splits s into lines no wider than width in the current font. Line
// breaks in s are kept; words longer than a line are broken by character.
func (c *Canvas) wrap(s string, width float64) []string {
	var out []string
	for _, para := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := ""
		for _, w := range words {
			candidate := w
			if line != "" {
				candidate = line + " " + w
			}
			if c.stringWidth(candidate) <= width {
				line = candidate
				continue
			}
			if line != "" {
				out = append(out, line)
				line = ""
			}
			for c.stringWidth(w) > width {
				head, tail := c.splitWord(w, width)
				out = append(out, head)
				w = tail
			}
			line = w
		}
		out = append(out, line)
	}
	return out
}

// splitWord returns the longest prefix of w that fits width (at least one
// character) and the remainder.
func (c *Canvas) splitWord(w string, width float64) (string, string) {
	cut := 0
	for i := range w {
		if i > 0 && c.stringWidth(w[:i]) > width {
			break
		}
		cut = i
	}
	if cut == 0 {
		_, n := utf8.DecodeRuneInString(w)
		cut = n
	}
	return w[:cut], w[cut:]
}

// footers writes "Page i of N" on every page once the total is known.
func (c *Canvas) footers(col Color) {
	total := len(c.pages)
	right := c.geo.PageWidth - c.geo.Margin - c.geo.FooterInset
	for i := 1; i <= total; i++ {
		c.pdf.SetPage(i)
		c.cur = i - 1
		c.setFont(9, false, col)
		label := footerLabel(i, total)
		c.text(right-c.stringWidth(label), c.geo.FooterY, label)
	}
}

func (c *Canvas) record(b Block) {
	c.pages[c.cur].Blocks = append(c.pages[c.cur].Blocks, b)
}

func (c *Canvas) output() ([]byte, error) {
	if err := c.pdf.Error(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := c.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
