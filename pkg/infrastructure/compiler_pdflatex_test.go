package infrastructure

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fakeTeX = `#!/bin/sh
if [ "$1" = "--version" ]; then
  echo "pdfTeX 3.141592653 (fake)"
  exit 0
fi
outdir=.
for a in "$@"; do
  case "$a" in
    -output-directory=*) outdir="${a#-output-directory=}" ;;
  esac
done
if [ -n "$FAKE_TEX_RECORD" ]; then
  echo "$outdir" >> "$FAKE_TEX_RECORD"
fi
cp resume.tex "$outdir/seen.tex" 2>/dev/null
printf '%%PDF-1.5 fake' > "$outdir/resume.pdf"
`

const failingTeX = `#!/bin/sh
if [ "$1" = "--version" ]; then exit 0; fi
echo "! Undefined control sequence."
exit 1
`

const silentTeX = `#!/bin/sh
exit 0
`

const slowTeX = `#!/bin/sh
if [ "$1" = "--version" ]; then exit 0; fi
exec sleep 5
`

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stand-in for pdflatex needs a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "pdflatex")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o755))
	return path
}

func TestPdflatexCompiler_Available(t *testing.T) {
	t.Run("probe succeeds", func(t *testing.T) {
		c := NewPdflatexCompiler(PdflatexOptions{Binary: writeScript(t, fakeTeX), ProbeTimeout: time.Second}, nil)
		assert.True(t, c.Available(context.Background()))
	})

	t.Run("missing binary", func(t *testing.T) {
		c := NewPdflatexCompiler(PdflatexOptions{Binary: filepath.Join(t.TempDir(), "no-such-pdflatex")}, nil)
		assert.False(t, c.Available(context.Background()))
		assert.Error(t, c.Unavailable())
	})
}

func TestPdflatexCompiler_Compile(t *testing.T) {
	t.Run("produces artifact and removes workspace", func(t *testing.T) {
		record := filepath.Join(t.TempDir(), "dirs.txt")
		t.Setenv("FAKE_TEX_RECORD", record)
		work := t.TempDir()

		c := NewPdflatexCompiler(PdflatexOptions{Binary: writeScript(t, fakeTeX), WorkDir: work, Passes: 2}, nil)
		pdf, err := c.Compile(context.Background(), `\documentclass{article}`)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(pdf), "%PDF"))

		b, err := os.ReadFile(record)
		require.NoError(t, err)
		dirs := strings.Fields(string(b))
		require.Len(t, dirs, 2, "one line per pass")
		assert.Equal(t, dirs[0], dirs[1])
		assert.True(t, strings.HasPrefix(dirs[0], work))
		_, err = os.Stat(dirs[0])
		assert.True(t, os.IsNotExist(err), "workspace must be removed")
	})

	t.Run("concurrent calls use distinct workspaces", func(t *testing.T) {
		record := filepath.Join(t.TempDir(), "dirs.txt")
		t.Setenv("FAKE_TEX_RECORD", record)
		c := NewPdflatexCompiler(PdflatexOptions{Binary: writeScript(t, fakeTeX), WorkDir: t.TempDir()}, nil)

		errs := make(chan error, 4)
		for i := 0; i < 4; i++ {
			go func() {
				_, err := c.Compile(context.Background(), "x")
				errs <- err
			}()
		}
		for i := 0; i < 4; i++ {
			require.NoError(t, <-errs)
		}
		b, err := os.ReadFile(record)
		require.NoError(t, err)
		seen := map[string]bool{}
		for _, d := range strings.Fields(string(b)) {
			seen[d] = true
		}
		assert.Len(t, seen, 4)
	})

	t.Run("tool failure cleans up", func(t *testing.T) {
		work := t.TempDir()
		c := NewPdflatexCompiler(PdflatexOptions{Binary: writeScript(t, failingTeX), WorkDir: work}, nil)
		_, err := c.Compile(context.Background(), "x")
		require.Error(t, err)

		entries, err := os.ReadDir(work)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("no artifact", func(t *testing.T) {
		c := NewPdflatexCompiler(PdflatexOptions{Binary: writeScript(t, silentTeX), WorkDir: t.TempDir()}, nil)
		_, err := c.Compile(context.Background(), "x")
		require.Error(t, err)
	})

	t.Run("timeout", func(t *testing.T) {
		c := NewPdflatexCompiler(PdflatexOptions{Binary: writeScript(t, slowTeX), WorkDir: t.TempDir(), Timeout: 100 * time.Millisecond}, nil)
		start := time.Now()
		_, err := c.Compile(context.Background(), "x")
		require.Error(t, err)
		assert.Less(t, time.Since(start), 4*time.Second)
	})
}
