// Command texrender renders a resume record into LaTeX and, unless
// -source-only is set, compiles it to PDF.
//
//	texrender -in resume.yaml -out build
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"resume-compiler/internal/config"
	"resume-compiler/internal/model"
	"resume-compiler/internal/wiring"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a YAML config file")
		in         = flag.String("in", "", "record file (.json, .yaml or .yml)")
		outDir     = flag.String("out", ".", "output directory")
		name       = flag.String("name", "resume", "base name of the output files")
		sourceOnly = flag.Bool("source-only", false, "write the .tex file and skip compilation")
		strict     = flag.Bool("strict", false, "fail when the record does not match the resume schema")
	)
	flag.Parse()

	if err := run(*configPath, *in, *outDir, *name, *sourceOnly, *strict); err != nil {
		fmt.Fprintln(os.Stderr, "texrender:", err)
		os.Exit(1)
	}
}

func run(configPath, in, outDir, name string, sourceOnly, strict bool) error {
	if in == "" {
		return fmt.Errorf("-in is required")
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger, err := cfg.Log.NewLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	record, err := readRecord(in)
	if err != nil {
		return err
	}
	if strict {
		if err := model.ValidateMap(record); err != nil {
			return err
		}
	}
	processor, err := wiring.Processor(cfg, nil, logger)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	texPath := filepath.Join(outDir, name+".tex")

	if sourceOnly {
		source, warnings := processor.Render(record)
		logWarnings(logger, warnings)
		return os.WriteFile(texPath, []byte(source), 0o644)
	}

	res := processor.Compile(context.Background(), record)
	logWarnings(logger, res.Warnings)
	if err := os.WriteFile(texPath, []byte(res.Source), 0o644); err != nil {
		return err
	}
	if !res.Success {
		return fmt.Errorf("no PDF produced, source written to %s: %s", texPath, res.Error)
	}
	pdfPath := filepath.Join(outDir, name+".pdf")
	if err := os.WriteFile(pdfPath, res.Artifact, 0o644); err != nil {
		return err
	}
	logger.Info("wrote pdf", zap.String("path", pdfPath), zap.String("engine", res.Engine))
	return nil
}

// readRecord decodes a JSON or YAML record. YAML is the fallback for any
// extension other than .json.
func readRecord(path string) (map[string]interface{}, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(b, &m)
	} else {
		err = yaml.Unmarshal(b, &m)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if m == nil {
		m = map[string]interface{}{}
	}
	return m, nil
}

func logWarnings(logger *zap.Logger, warnings []string) {
	for _, w := range warnings {
		logger.Warn("record", zap.String("warning", w))
	}
}
