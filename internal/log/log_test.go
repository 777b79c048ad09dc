package log

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLog_DisabledWithoutInit(t *testing.T) {
	defaultLogger = nil
	// Must not panic when no logger is installed.
	Info(CatCLI, "ignored", "k", "v")
}

func TestLog_FormatsFields(t *testing.T) {
	var buf bytes.Buffer
	cleanup := InitWriter(&buf)
	defer cleanup()

	Info(CatRegistry, "row appended", "id", "PROJ-3", "path", "/tmp/r.md")

	out := buf.String()
	require.Contains(t, out, "[INFO] [registry] row appended")
	require.Contains(t, out, "id=PROJ-3")
	require.Contains(t, out, "path=/tmp/r.md")
	require.True(t, bytes.HasSuffix(buf.Bytes(), []byte("\n")))
}

func TestLog_OddFieldCount(t *testing.T) {
	var buf bytes.Buffer
	cleanup := InitWriter(&buf)
	defer cleanup()

	Warn(CatProject, "odd", "orphan")
	require.Contains(t, buf.String(), "orphan=<missing>")
}

func TestLog_MinLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	cleanup := InitWriter(&buf)
	defer cleanup()

	SetMinLevel(LevelWarn)
	Debug(CatProject, "hidden")
	Info(CatProject, "hidden too")
	ErrorErr(CatProject, "shown", errors.New("boom"))

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "[ERROR] [project] shown error=boom")
}

func TestLog_SetEnabled(t *testing.T) {
	var buf bytes.Buffer
	cleanup := InitWriter(&buf)
	defer cleanup()

	SetEnabled(false)
	Error(CatCLI, "muted")
	require.Empty(t, buf.String())

	SetEnabled(true)
	Error(CatCLI, "audible")
	require.Contains(t, buf.String(), "audible")
}

func TestInit_AppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	cleanup, err := Init(path)
	require.NoError(t, err)

	Info(CatConfig, "first")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "[INFO] [config] first")
}

func TestLevel_String(t *testing.T) {
	require.Equal(t, "DEBUG", LevelDebug.String())
	require.Equal(t, "INFO", LevelInfo.String())
	require.Equal(t, "WARN", LevelWarn.String())
	require.Equal(t, "ERROR", LevelError.String())
	require.Equal(t, "UNKNOWN", Level(42).String())
}
