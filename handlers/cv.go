package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jobscout/jobscout/backend/go-services/internal/archive"
	"github.com/jobscout/jobscout/backend/go-services/internal/cv"
	"github.com/jobscout/jobscout/backend/go-services/internal/cv/delivery"
	"github.com/jobscout/jobscout/backend/go-services/internal/cv/editor"
	"github.com/jobscout/jobscout/backend/go-services/internal/cv/store"
	"github.com/jobscout/jobscout/backend/go-services/pkg/logger"
	"github.com/jobscout/jobscout/backend/go-services/pkg/middleware"
)

var cvLog = logger.For("cv")

// SessionHeader carries the device-local editing key of anonymous users.
const SessionHeader = "X-CV-Session"

// maxImportSize bounds uploaded snapshots.
const maxImportSize = 1 << 20

type fieldRequest struct {
	Section string `json:"section" binding:"required"`
	Key     string `json:"key"`
	Value   string `json:"value"`
}

type sendRequest struct {
	Email  string       `json:"email"`
	CVData *cv.Document `json:"cvData"`
}

// CVHandler serves the CV builder.
type CVHandler struct {
	store    store.Store
	delivery *delivery.Service
	archive  *archive.Archiver
}

// NewCVHandler wires the handler. arch may be nil.
func NewCVHandler(st store.Store, d *delivery.Service, arch *archive.Archiver) *CVHandler {
	return &CVHandler{store: st, delivery: d, archive: arch}
}

// Register mounts /api/cv on rg.
func (h *CVHandler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/api/cv")
	g.GET("", h.Load)
	g.PATCH("/fields", h.SetField)
	g.POST("/experience", h.AddExperience)
	g.DELETE("/experience/:id", h.RemoveExperience)
	g.POST("/education", h.AddEducation)
	g.DELETE("/education/:id", h.RemoveEducation)
	g.POST("/reset", h.Reset)
	g.GET("/export", h.Export)
	g.POST("/import", h.Import)
	g.POST("/generate", h.Generate)
	g.POST("/send", h.Send)
	g.POST("/archive", h.Archive)
	g.GET("/archives", h.Archives)
}

// Owner keys are namespaced so a session header can never name an account.
const (
	userOwnerPrefix = "user:"
	anonOwnerPrefix = "anon:"
)

// owner is the verified subject, else the session header. Empty when the
// request carries neither.
func owner(c *gin.Context) string {
	if sub := middleware.Subject(c); sub != "" {
		return userOwnerPrefix + sub
	}
	if id := strings.TrimSpace(c.GetHeader(SessionHeader)); id != "" {
		return anonOwnerPrefix + id
	}
	return ""
}

// open starts an editing session or writes the error response.
func (h *CVHandler) open(c *gin.Context) (*editor.Session, bool) {
	key := owner(c)
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing " + SessionHeader + " header"})
		return nil, false
	}
	s, err := editor.Open(c.Request.Context(), h.store, key)
	if err != nil {
		cvLog.Errorf("open session %s: %v", key, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load CV"})
		return nil, false
	}
	return s, true
}

// editStatus maps an editing error to an HTTP status.
func editStatus(err error) int {
	var fe *cv.FieldError
	var pe *cv.ParseError
	switch {
	case errors.Is(err, cv.ErrEntryNotFound):
		return http.StatusNotFound
	case errors.Is(err, cv.ErrLastEntry):
		return http.StatusConflict
	case errors.As(err, &fe), errors.As(err, &pe):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *CVHandler) reply(c *gin.Context, s *editor.Session, n editor.Notice, err error, extra gin.H) {
	if err != nil {
		status := editStatus(err)
		if status == http.StatusInternalServerError {
			cvLog.Errorf("%s: %v", s.Owner(), err)
		}
		c.JSON(status, gin.H{"error": err.Error(), "notice": n})
		return
	}
	body := gin.H{"document": s.Document(), "notice": n}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

func (h *CVHandler) Load(c *gin.Context) {
	s, ok := h.open(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"document": s.Document()})
}

func (h *CVHandler) SetField(c *gin.Context) {
	var req fieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, ok := h.open(c)
	if !ok {
		return
	}
	n, err := s.SetField(c.Request.Context(), req.Section, req.Key, req.Value)
	h.reply(c, s, n, err, nil)
}

func (h *CVHandler) AddExperience(c *gin.Context) {
	s, ok := h.open(c)
	if !ok {
		return
	}
	e, n, err := s.AddExperience(c.Request.Context())
	h.reply(c, s, n, err, gin.H{"entry": e})
}

func (h *CVHandler) RemoveExperience(c *gin.Context) {
	s, ok := h.open(c)
	if !ok {
		return
	}
	n, err := s.RemoveExperience(c.Request.Context(), c.Param("id"))
	h.reply(c, s, n, err, nil)
}

func (h *CVHandler) AddEducation(c *gin.Context) {
	s, ok := h.open(c)
	if !ok {
		return
	}
	e, n, err := s.AddEducation(c.Request.Context())
	h.reply(c, s, n, err, gin.H{"entry": e})
}

func (h *CVHandler) RemoveEducation(c *gin.Context) {
	s, ok := h.open(c)
	if !ok {
		return
	}
	n, err := s.RemoveEducation(c.Request.Context(), c.Param("id"))
	h.reply(c, s, n, err, nil)
}

func (h *CVHandler) Reset(c *gin.Context) {
	s, ok := h.open(c)
	if !ok {
		return
	}
	n, err := s.Reset(c.Request.Context())
	h.reply(c, s, n, err, nil)
}

// Export downloads the snapshot as "{name}_data.json".
func (h *CVHandler) Export(c *gin.Context) {
	s, ok := h.open(c)
	if !ok {
		return
	}
	blob, name, n, err := s.Export()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "notice": n})
		return
	}
	c.Header("Content-Disposition", attachment(name))
	c.Data(http.StatusOK, cv.SnapshotContentType, blob)
}

// Import accepts the snapshot as the raw body or a multipart "file" field.
func (h *CVHandler) Import(c *gin.Context) {
	blob, err := importBody(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "notice": editor.Notice{Level: editor.LevelError, Message: "Invalid data file"}})
		return
	}
	s, ok := h.open(c)
	if !ok {
		return
	}
	n, err := s.Import(c.Request.Context(), blob)
	h.reply(c, s, n, err, nil)
}

func importBody(c *gin.Context) ([]byte, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if err != nil {
			return nil, err
		}
		if fh.Size > maxImportSize {
			return nil, errors.New("file too large")
		}
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return io.ReadAll(f)
	}
	blob, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportSize+1))
	if err != nil {
		return nil, err
	}
	if len(blob) > maxImportSize {
		return nil, errors.New("file too large")
	}
	return blob, nil
}

func attachment(name string) string {
	return fmt.Sprintf(`attachment; filename="%s"`, strings.ReplaceAll(name, `"`, "'"))
}

// renderFailure writes the response for a failed Generate.
func renderFailure(c *gin.Context, err error) {
	var ve *cv.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Full name and email are required", "missing": ve.Missing})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate PDF", "details": err.Error()})
}

// Generate renders the posted document and returns the PDF.
func (h *CVHandler) Generate(c *gin.Context) {
	var doc cv.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid CV data", "details": err.Error()})
		return
	}
	out, err := h.delivery.Generate(doc)
	if err != nil {
		renderFailure(c, err)
		return
	}
	c.Header("Content-Disposition", attachment(out.Filename))
	c.Header("Cache-Control", "no-store, max-age=0")
	c.Data(http.StatusOK, out.ContentType, out.PDF)
}

// Send mails the rendered CV to the given address.
func (h *CVHandler) Send(c *gin.Context) {
	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.CVData == nil || strings.TrimSpace(req.Email) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and CV data are required"})
		return
	}
	err := h.delivery.Send(c.Request.Context(), req.Email, *req.CVData)
	var ve *cv.ValidationError
	var te *cv.TransportError
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "CV sent successfully!"})
	case errors.Is(err, delivery.ErrInvalidRecipient):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Full name and email are required", "missing": ve.Missing})
	case errors.As(err, &te):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to send CV", "details": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send CV", "details": err.Error()})
	}
}

// Archive renders the posted document, stores it and returns a link.
func (h *CVHandler) Archive(c *gin.Context) {
	if !h.archive.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": archive.ErrDisabled.Error()})
		return
	}
	key := owner(c)
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing " + SessionHeader + " header"})
		return
	}
	var doc cv.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid CV data", "details": err.Error()})
		return
	}
	out, err := h.delivery.Generate(doc)
	if err != nil {
		renderFailure(c, err)
		return
	}
	entry, err := h.archive.Store(c.Request.Context(), key, out.Filename, out.Pages, out.PDF)
	if err != nil {
		cvLog.Errorf("archive %s: %v", out, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to archive CV", "details": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// Archives lists the caller's archived renders.
func (h *CVHandler) Archives(c *gin.Context) {
	if !h.archive.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": archive.ErrDisabled.Error()})
		return
	}
	key := owner(c)
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing " + SessionHeader + " header"})
		return
	}
	entries, err := h.archive.List(c.Request.Context(), key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list archives", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"archives": entries})
}
