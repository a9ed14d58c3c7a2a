package infrastructure

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JobName is the base name of the source and artifact files inside a
// workspace.
const JobName = "resume"

const (
	logTailBytes = 2048
	waitDelay    = 2 * time.Second
)

// PdflatexOptions configures a PdflatexCompiler.
type PdflatexOptions struct {
	Binary       string
	WorkDir      string // parent of per-request workspaces; empty means os.TempDir()
	Passes       int
	Timeout      time.Duration
	ProbeTimeout time.Duration
}

// PdflatexCompiler compiles LaTeX source with a local pdflatex binary. Each
// call works in its own uniquely named directory, removed on return.
type PdflatexCompiler struct {
	binary       string
	workDir      string
	passes       int
	timeout      time.Duration
	probeTimeout time.Duration
	logger       *zap.Logger
}

func NewPdflatexCompiler(opts PdflatexOptions, logger *zap.Logger) *PdflatexCompiler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Binary == "" {
		opts.Binary = "pdflatex"
	}
	if opts.WorkDir == "" {
		opts.WorkDir = os.TempDir()
	}
	if opts.Passes < 1 {
		opts.Passes = 1
	}
	return &PdflatexCompiler{
		binary:       opts.Binary,
		workDir:      opts.WorkDir,
		passes:       opts.Passes,
		timeout:      opts.Timeout,
		probeTimeout: opts.ProbeTimeout,
		logger:       logger.Named("pdflatex"),
	}
}

// Available runs "<binary> --version" as a cheap probe.
func (c *PdflatexCompiler) Available(ctx context.Context) bool {
	ctx, cancel := withOptionalTimeout(ctx, c.probeTimeout)
	defer cancel()

	if err := exec.CommandContext(ctx, c.binary, "--version").Run(); err != nil {
		c.logger.Debug("probe failed", zap.String("binary", c.binary), zap.Error(err))
		return false
	}
	return true
}

// Compile writes source into a fresh workspace, runs the configured number
// of passes and returns the PDF bytes.
func (c *PdflatexCompiler) Compile(ctx context.Context, source string) ([]byte, error) {
	ctx, cancel := withOptionalTimeout(ctx, c.timeout)
	defer cancel()

	dir := filepath.Join(c.workDir, "resume-"+uuid.New().String())
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, newLocalError(ErrMsgWorkspace, dir, 0, "", err)
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			c.logger.Warn("workspace cleanup failed", zap.String("dir", dir), zap.Error(err))
		}
	}()

	texName := JobName + ".tex"
	if err := os.WriteFile(filepath.Join(dir, texName), []byte(source), 0o600); err != nil {
		return nil, newLocalError(ErrMsgWorkspace, dir, 0, "", err)
	}

	for pass := 1; pass <= c.passes; pass++ {
		cmd := exec.CommandContext(ctx, c.binary,
			"-interaction=nonstopmode",
			"-output-directory="+dir,
			texName,
		)
		cmd.Dir = dir
		cmd.WaitDelay = waitDelay
		out, err := cmd.CombinedOutput()
		if err != nil {
			if ctx.Err() != nil {
				err = ctx.Err()
			}
			return nil, newLocalError(ErrMsgLocalCompileFailed, dir, pass, tail(out, logTailBytes), err)
		}
		c.logger.Debug("pass finished", zap.Int("pass", pass), zap.Int("output_bytes", len(out)))
	}

	pdf, err := os.ReadFile(filepath.Join(dir, JobName+".pdf"))
	if err != nil {
		return nil, newLocalError(ErrMsgArtifactMissing, dir, 0, "", err)
	}
	return pdf, nil
}

// Unavailable returns the error reported when the probe fails.
func (c *PdflatexCompiler) Unavailable() error {
	return newUnavailableError(c.binary)
}

func withOptionalTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func tail(b []byte, n int) string {
	s := strings.TrimSpace(string(b))
	if len(s) > n {
		s = s[len(s)-n:]
	}
	return s
}
