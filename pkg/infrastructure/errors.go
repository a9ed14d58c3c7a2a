package infrastructure

import (
	"strconv"

	"github.com/itsatony/go-cuserr"
)

// Error messages.
const (
	ErrMsgToolUnavailable    = "local LaTeX compiler is not available"
	ErrMsgWorkspace          = "could not prepare compile workspace"
	ErrMsgLocalCompileFailed = "local LaTeX compilation failed"
	ErrMsgArtifactMissing    = "compiler produced no PDF"
	ErrMsgRemoteRequest      = "remote compilation request failed"
	ErrMsgRemoteStatus       = "remote compiler returned non-success status"
)

// Error codes.
const (
	ErrCodeLocal       = "COMPILE_LOCAL"
	ErrCodeRemote      = "COMPILE_REMOTE"
	ErrCodeUnavailable = "COMPILE_UNAVAILABLE"
)

// Metadata keys.
const (
	MetaKeyBinary    = "binary"
	MetaKeyWorkspace = "workspace"
	MetaKeyPass      = "pass"
	MetaKeyLogTail   = "log_tail"
	MetaKeyURL       = "url"
	MetaKeyStatus    = "status"
	MetaKeyAttempts  = "attempts"
)

func newUnavailableError(binary string) error {
	return cuserr.NewValidationError(ErrCodeUnavailable, ErrMsgToolUnavailable).
		WithMetadata(MetaKeyBinary, binary)
}

func newLocalError(msg, workspace string, pass int, logTail string, cause error) error {
	err := cuserr.WrapStdError(cause, ErrCodeLocal, msg).
		WithMetadata(MetaKeyWorkspace, workspace)
	if pass > 0 {
		err = err.WithMetadata(MetaKeyPass, strconv.Itoa(pass))
	}
	if logTail != "" {
		err = err.WithMetadata(MetaKeyLogTail, logTail)
	}
	return err
}

func newRemoteStatusError(url string, status, attempts int) error {
	return cuserr.NewValidationError(ErrCodeRemote, ErrMsgRemoteStatus).
		WithMetadata(MetaKeyURL, url).
		WithMetadata(MetaKeyStatus, strconv.Itoa(status)).
		WithMetadata(MetaKeyAttempts, strconv.Itoa(attempts))
}

func newRemoteRequestError(url string, attempts int, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeRemote, ErrMsgRemoteRequest).
		WithMetadata(MetaKeyURL, url).
		WithMetadata(MetaKeyAttempts, strconv.Itoa(attempts))
}
