// Package wiring builds the compile pipeline from configuration. It is
// shared by the server and the CLI.
package wiring

import (
	"fmt"

	"resume-compiler/internal/config"
	"resume-compiler/internal/usecase"
	"resume-compiler/pkg/infrastructure"
	"resume-compiler/pkg/latex"
	"resume-compiler/pkg/tmpl"
	"resume-compiler/templates"

	"go.uber.org/zap"
)

// Template loads the configured template, or the built-in one when no path
// is set.
func Template(cfg config.TemplateConfig) (*tmpl.Template, error) {
	if cfg.Path == "" {
		return tmpl.Parse("resume.tex", templates.ResumeTeX), nil
	}
	t, err := tmpl.ParseFile(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("load template: %w", err)
	}
	return t, nil
}

func Sanitizer(cfg config.SanitizerConfig) *latex.Sanitizer {
	return latex.NewSanitizer(
		latex.WithMarkupMarkers(cfg.MarkupMarkers...),
		latex.WithBulletKeys(cfg.BulletKeys...),
	)
}

// Compilers returns the enabled tiers. A disabled tier is a nil interface.
func Compilers(cfg config.Config, logger *zap.Logger) (usecase.LocalCompiler, usecase.RemoteCompiler) {
	var (
		local  usecase.LocalCompiler
		remote usecase.RemoteCompiler
	)
	if !cfg.Compiler.Disabled {
		local = infrastructure.NewPdflatexCompiler(infrastructure.PdflatexOptions{
			Binary:       cfg.Compiler.Binary,
			WorkDir:      cfg.Compiler.WorkDir,
			Passes:       cfg.Compiler.Passes,
			Timeout:      cfg.Compiler.Timeout,
			ProbeTimeout: cfg.Compiler.ProbeTimeout,
		}, logger)
	}
	if !cfg.Remote.Disabled && cfg.Remote.URL != "" {
		remote = infrastructure.NewRemoteCompiler(infrastructure.RemoteOptions{
			URL:      cfg.Remote.URL,
			Method:   cfg.Remote.Method,
			Timeout:  cfg.Remote.Timeout,
			Attempts: cfg.Remote.Attempts,
			Backoff:  cfg.Remote.Backoff,
		}, logger)
	}
	return local, remote
}

// Processor wires template, sanitizer and compilers into a usecase.Processor.
// repo may be nil.
func Processor(cfg config.Config, repo usecase.JobsRepo, logger *zap.Logger) (*usecase.Processor, error) {
	tpl, err := Template(cfg.Template)
	if err != nil {
		return nil, err
	}
	local, remote := Compilers(cfg, logger)
	return usecase.NewProcessor(tpl, Sanitizer(cfg.Sanitizer), local, remote, repo, logger), nil
}
