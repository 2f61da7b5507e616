package logger

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T, lvl string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	restore := SetOutput(&buf)
	prevNow := now
	now = func() time.Time { return time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC) }
	Init(lvl)
	t.Cleanup(func() {
		restore()
		now = prevNow
		Init("info")
	})
	return &buf
}

func TestInitAndLevelString(t *testing.T) {
	for in, want := range map[string]string{
		"debug":    "debug",
		"WARN":     "warn",
		"warning":  "warn",
		"Error":    "error",
		" fatal ":  "fatal",
		"nonsense": "info",
		"":         "info",
	} {
		Init(in)
		assert.Equal(t, want, LevelString(), "input %q", in)
	}
	Init("info")
}

func TestLevelFiltering(t *testing.T) {
	buf := capture(t, "warn")
	Debugf("debug-msg")
	Infof("info-msg")
	Warnf("warn-msg")
	Errorf("error-msg %d", 7)

	out := buf.String()
	assert.NotContains(t, out, "debug-msg")
	assert.NotContains(t, out, "info-msg")
	assert.Contains(t, out, "2026-05-04T10:00:00Z [WARN] warn-msg\n")
	assert.Contains(t, out, "[ERROR] error-msg 7\n")
}

func TestComponentPrefix(t *testing.T) {
	buf := capture(t, "debug")
	mail := For("mailer")
	mail.Infof("sent %q to %s", "Your CV - Ann Lee", MaskEmail("ann@x.com"))
	For("jobsearch").Debugf("%d results", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `2026-05-04T10:00:00Z [INFO] mailer: sent "Your CV - Ann Lee" to a**@x.com`, lines[0])
	assert.Equal(t, "2026-05-04T10:00:00Z [DEBUG] jobsearch: 3 results", lines[1])
}

func TestComponentRespectsLevel(t *testing.T) {
	buf := capture(t, "error")
	For("archive").Warnf("presign failed")
	assert.Empty(t, buf.String())
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "a**@x.com", MaskEmail("ann@x.com"))
	assert.Equal(t, "j@example.org", MaskEmail(" j@example.org "))
	assert.Equal(t, "é****@x.fr", MaskEmail("élise@x.fr"))
	assert.Equal(t, "***", MaskEmail("not-an-address"))
	assert.Equal(t, "***", MaskEmail("@x.com"))
	assert.Equal(t, "***", MaskEmail("ann@"))
}
