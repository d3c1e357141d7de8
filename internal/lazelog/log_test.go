package lazelog

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelWarn)

	l.Infof("should not appear")
	assert.Empty(t, buf.String())

	l.Warnf("missing module %q", "net")
	assert.Contains(t, buf.String(), "WARNING")
	assert.Contains(t, buf.String(), `missing module "net"`)
}

func TestLogSetLevelRaisesVerbosity(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelWarn)

	l.Verbosef("ignored")
	assert.Empty(t, buf.String())

	l.SetLevel(LevelVerbose)
	l.Verbosef("now visible")
	assert.Contains(t, buf.String(), "now visible")
}

func TestPackageLevelLoggerWritesToDefault(t *testing.T) {
	var buf bytes.Buffer
	prev := Default
	Default = New(&buf, LevelVerbose)
	defer func() { Default = prev }()

	Errorf("boom")
	Warnf("careful")
	Infof("fyi")
	Verbosef("detail")

	out := buf.String()
	assert.Contains(t, out, "boom")
	assert.Contains(t, out, "careful")
	assert.Contains(t, out, "fyi")
	assert.Contains(t, out, "detail")
}
