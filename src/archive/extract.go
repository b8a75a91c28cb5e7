package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Extractor unpacks an archive into a directory, overwriting existing entries.
type Extractor interface {
	Extract(ctx context.Context, archivePath, outputDir string) error
}

// ExtractError reports a failed extraction process.
type ExtractError struct {
	ExitCode int
	Stderr   string
	Err      error
}

// Error reports the exit code with stderr, or the underlying error when
// stderr is empty.
func (e *ExtractError) Error() string {
	msg := fmt.Sprintf("unzip failed with exit code %d", e.ExitCode)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the process error.
func (e *ExtractError) Unwrap() error {
	return e.Err
}

// UnzipExtractor runs the external unzip utility.
type UnzipExtractor struct {
	// Path to the unzip binary; "unzip" when empty.
	Path string
}

// Extract runs `unzip -o archivePath -d outputDir`. A failed run yields an
// *ExtractError carrying the exit code (-1 when the process did not start).
func (u *UnzipExtractor) Extract(ctx context.Context, archivePath, outputDir string) error {
	bin := u.Path
	if bin == "" {
		bin = "unzip"
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "-o", archivePath, "-d", outputDir)
	cmd.Stdout = io.Discard
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		code := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		return &ExtractError{
			ExitCode: code,
			Stderr:   strings.TrimSpace(stderr.String()),
			Err:      err,
		}
	}
	return nil
}
