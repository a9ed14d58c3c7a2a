package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"resume-compiler/internal/domain"
	"resume-compiler/internal/model"
	"resume-compiler/pkg/latex"
	"resume-compiler/pkg/tmpl"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// pdfMagic is the signature every compiled artifact must start with.
var pdfMagic = []byte("%PDF")

// LocalCompiler runs a LaTeX toolchain installed on this host.
type LocalCompiler interface {
	Available(ctx context.Context) bool
	Compile(ctx context.Context, source string) ([]byte, error)
	Unavailable() error
}

// RemoteCompiler hands source to a compilation service.
type RemoteCompiler interface {
	Compile(ctx context.Context, source string) ([]byte, error)
}

type JobsRepo interface {
	Save(ctx context.Context, j *domain.CompileJob) error
}

var (
	errLocalDisabled  = errors.New("local compiler disabled")
	errRemoteDisabled = errors.New("remote compiler disabled")
)

// Processor turns records into LaTeX source and, when possible, a PDF.
// A nil local or remote compiler disables that tier; a nil repo disables
// persistence.
type Processor struct {
	tpl       *tmpl.Template
	sanitizer *latex.Sanitizer
	local     LocalCompiler
	remote    RemoteCompiler
	repo      JobsRepo
	logger    *zap.Logger
}

func NewProcessor(tpl *tmpl.Template, sanitizer *latex.Sanitizer, local LocalCompiler, remote RemoteCompiler, repo JobsRepo, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sanitizer == nil {
		sanitizer = latex.NewSanitizer()
	}
	for _, d := range tpl.Diagnostics() {
		logger.Debug("template directive dropped",
			zap.String("template", tpl.Name()),
			zap.Int("offset", d.Pos),
			zap.String("tag", d.Tag),
			zap.String("reason", d.Reason))
	}
	return &Processor{
		tpl:       tpl,
		sanitizer: sanitizer,
		local:     local,
		remote:    remote,
		repo:      repo,
		logger:    logger,
	}
}

// Render validates, normalizes and escapes record, then expands the
// template. Schema violations come back as warnings.
func (p *Processor) Render(record map[string]interface{}) (string, []string) {
	start := time.Now()
	if record == nil {
		record = map[string]interface{}{}
	}
	warnings := model.ValidateRecord(record)
	data := p.sanitizer.SanitizeRecord(NormalizeRecord(record))
	source := p.tpl.Render(data)

	p.logger.Info("render finished",
		zap.Int("source_bytes", len(source)),
		zap.Int("warnings", len(warnings)),
		zap.Duration("duration", time.Since(start)))
	return source, warnings
}

// LocalAvailable reports whether the local tier would be tried.
func (p *Processor) LocalAvailable(ctx context.Context) bool {
	return p.local != nil && p.local.Available(ctx)
}

// Compile renders record and tries the local tier, then the remote tier.
// It never fails outright: the result always carries the rendered source,
// and Error summarizes why no artifact was produced.
func (p *Processor) Compile(ctx context.Context, record map[string]interface{}) domain.CompilationResult {
	job := &domain.CompileJob{
		ID:        uuid.New(),
		Status:    domain.StatusPending,
		Metadata:  map[string]interface{}{},
		CreatedAt: time.Now(),
	}

	source, warnings := p.Render(record)
	res := domain.CompilationResult{
		JobID:    job.ID,
		Source:   source,
		Warnings: warnings,
	}

	localErr := p.compileLocal(ctx, source, &res)
	var remoteErr error
	if !res.Success {
		remoteErr = p.compileRemote(ctx, source, &res)
	}

	if res.Success {
		p.logger.Info("compilation succeeded",
			zap.String("job_id", job.ID.String()),
			zap.String("engine", res.Engine),
			zap.Int("pdf_bytes", len(res.Artifact)))
	} else {
		res.Error = fmt.Sprintf("local: %v; remote: %v", localErr, remoteErr)
		p.logger.Warn("compilation failed, returning source only",
			zap.String("job_id", job.ID.String()),
			zap.String("error", res.Error))
	}

	p.persist(ctx, job, res)
	return res
}

func (p *Processor) compileLocal(ctx context.Context, source string, res *domain.CompilationResult) error {
	if p.local == nil {
		return errLocalDisabled
	}
	if !p.local.Available(ctx) {
		p.logger.Info("local compiler unavailable, falling back")
		return p.local.Unavailable()
	}
	pdf, err := p.local.Compile(ctx, source)
	if err == nil {
		err = checkArtifact(pdf)
	}
	if err != nil {
		p.logger.Warn("local compilation failed", zap.Error(err))
		return err
	}
	res.Success, res.Engine, res.Artifact = true, domain.EngineLocal, pdf
	return nil
}

func (p *Processor) compileRemote(ctx context.Context, source string, res *domain.CompilationResult) error {
	if p.remote == nil {
		return errRemoteDisabled
	}
	pdf, err := p.remote.Compile(ctx, source)
	if err == nil {
		err = checkArtifact(pdf)
	}
	if err != nil {
		p.logger.Warn("remote compilation failed", zap.Error(err))
		return err
	}
	res.Success, res.Engine, res.Artifact = true, domain.EngineRemote, pdf
	return nil
}

func checkArtifact(pdf []byte) error {
	if !bytes.HasPrefix(pdf, pdfMagic) {
		return fmt.Errorf("invalid PDF output (len=%d)", len(pdf))
	}
	return nil
}

// persist records the run. Failures are logged and otherwise ignored.
func (p *Processor) persist(ctx context.Context, job *domain.CompileJob, res domain.CompilationResult) {
	if p.repo == nil {
		return
	}
	job.Engine = res.Engine
	job.SourceSize = len(res.Source)
	job.ArtifactSize = len(res.Artifact)
	job.Error = res.Error
	job.Status = domain.StatusSourceOnly
	if res.Success {
		job.Status = domain.StatusCompiled
	}
	if len(res.Warnings) > 0 {
		job.Metadata["warnings"] = strings.Join(res.Warnings, "; ")
	}
	job.Metadata["template"] = p.tpl.Name()
	job.UpdatedAt = time.Now()

	if err := p.repo.Save(ctx, job); err != nil {
		p.logger.Warn("failed to save compile job", zap.String("job_id", job.ID.String()), zap.Error(err))
	}
}
