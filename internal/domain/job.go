package domain

import (
	"time"

	"github.com/google/uuid"
)

// Compilation tiers reported in CompilationResult.Engine.
const (
	EngineLocal  = "local"
	EngineRemote = "remote"
	EngineNone   = ""
)

// Job statuses.
const (
	StatusPending    = "pending"
	StatusCompiled   = "compiled"
	StatusSourceOnly = "source_only"
)

// CompilationResult is what a compile request hands back. Source is always
// set once rendering ran, so callers can offer the raw .tex even when no
// PDF could be produced.
type CompilationResult struct {
	JobID    uuid.UUID `json:"jobId"`
	Success  bool      `json:"success"`
	Source   string    `json:"latexSource"`
	Artifact []byte    `json:"-"`
	Error    string    `json:"error,omitempty"`
	Engine   string    `json:"engine,omitempty"`
	Warnings []string  `json:"warnings,omitempty"`
}

// HasArtifact reports whether a compiled document is attached.
func (r CompilationResult) HasArtifact() bool {
	return len(r.Artifact) > 0
}

// CompileJob is the persisted record of one compile request.
type CompileJob struct {
	ID           uuid.UUID              `json:"id"`
	Status       string                 `json:"status"`
	Engine       string                 `json:"engine"`
	SourceSize   int                    `json:"source_size"`
	ArtifactSize int                    `json:"artifact_size"`
	Error        string                 `json:"error,omitempty"`
	Metadata     map[string]interface{} `json:"metadata"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}
