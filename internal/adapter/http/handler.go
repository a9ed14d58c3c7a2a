package http

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"

	"resume-compiler/internal/domain"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SourceOnlyWarning is returned when no PDF could be produced but the
// rendered source is available.
const SourceOnlyWarning = "PDF generation failed. You can download the .tex file instead."

// Processor is the part of usecase.Processor the handlers need.
type Processor interface {
	Render(record map[string]interface{}) (string, []string)
	Compile(ctx context.Context, record map[string]interface{}) domain.CompilationResult
	LocalAvailable(ctx context.Context) bool
}

type Handler struct {
	processor Processor
	logger    *zap.Logger
}

func NewHandler(p Processor, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{processor: p, logger: logger}
}

// Register mounts the handlers on app.
func (h *Handler) Register(app *fiber.App) {
	app.Post("/compile", h.Compile)
	app.Post("/render", h.Render)
	app.Get("/healthz", h.Health)
}

type compileResp struct {
	JobID       string   `json:"jobId"`
	Success     bool     `json:"success"`
	LatexSource string   `json:"latexSource"`
	PDFBase64   *string  `json:"pdfBase64"`
	Engine      string   `json:"engine,omitempty"`
	Warnings    []string `json:"warnings,omitempty"`
	Error       string   `json:"error,omitempty"`
	Warning     string   `json:"warning,omitempty"`
}

func (h *Handler) Compile(c *fiber.Ctx) error {
	record, err := parseRecord(c.Body())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	res := h.processor.Compile(c.UserContext(), record)
	out := compileResp{
		JobID:       res.JobID.String(),
		Success:     res.Success,
		LatexSource: res.Source,
		Engine:      res.Engine,
		Warnings:    res.Warnings,
		Error:       res.Error,
	}
	if res.HasArtifact() {
		enc := base64.StdEncoding.EncodeToString(res.Artifact)
		out.PDFBase64 = &enc
	} else if res.Source != "" {
		out.Warning = SourceOnlyWarning
	}
	return c.Status(fiber.StatusOK).JSON(out)
}

func (h *Handler) Render(c *fiber.Ctx) error {
	record, err := parseRecord(c.Body())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	source, warnings := h.processor.Render(record)
	for _, w := range warnings {
		h.logger.Debug("record warning", zap.String("warning", w))
	}
	c.Set(fiber.HeaderContentType, "text/x-tex; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="resume.tex"`)
	return c.Status(fiber.StatusOK).SendString(source)
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":        "ok",
		"localCompiler": h.processor.LocalAvailable(c.UserContext()),
	})
}

var errInvalidPayload = errors.New("invalid payload")

// parseRecord accepts {"record": {...}} or a bare record object.
func parseRecord(body []byte) (map[string]interface{}, error) {
	var m map[string]interface{}
	if err := json.Unmarshal(body, &m); err != nil || m == nil {
		return nil, errInvalidPayload
	}
	if raw, ok := m["record"]; ok {
		rec, ok := raw.(map[string]interface{})
		if !ok {
			return nil, errInvalidPayload
		}
		return rec, nil
	}
	return m, nil
}
