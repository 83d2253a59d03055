package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel/attribute"

	"github.com/zjrosen/advcomment/internal/editor"
	"github.com/zjrosen/advcomment/internal/log"
	"github.com/zjrosen/advcomment/internal/pubsub"
	"github.com/zjrosen/advcomment/internal/tracing"
	"github.com/zjrosen/advcomment/internal/trim"
)

// LoadFile reads the note at path into a buffer.
func LoadFile(path string) (*editor.Buffer, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path names the note being edited
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return editor.NewBuffer(string(data)), nil
}

// SaveFile replaces the contents of path with text. The file keeps its
// permissions and is never left half written.
func SaveFile(path, text string) error {
	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	temp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.WriteString(text); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Chmod(perm); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// TrimFile trims the note at path in place. The file is only rewritten when
// trimming changes it.
func (c *Commenter) TrimFile(ctx context.Context, path string, codeOnly bool) (bool, error) {
	_, span := tracing.Start(ctx, c.tracer, tracing.SpanTrimFile,
		attribute.String(tracing.AttrPath, path),
		attribute.Bool(tracing.AttrCodeOnly, codeOnly))
	defer span.End()

	data, err := os.ReadFile(path) //nolint:gosec // G304: path names the note being edited
	if err != nil {
		err = fmt.Errorf("reading %s: %w", path, err)
		tracing.Fail(span, err)
		return false, err
	}

	before := string(data)
	after := trim.Apply(before, codeOnly)
	changed := after != before
	span.SetAttributes(attribute.Bool(tracing.AttrChanged, changed))
	if !changed {
		span.AddEvent(tracing.EventNoop)
		return false, nil
	}

	if err := SaveFile(path, after); err != nil {
		tracing.Fail(span, err)
		log.ErrorErr(log.CatTrim, "saving trimmed file failed", err, "path", path)
		return false, err
	}
	span.AddEvent(tracing.EventReplaced)
	log.Info(log.CatTrim, "trimmed file", "path", path, "codeOnly", codeOnly)

	c.publish(pubsub.FileTrimmedEvent, Change{Path: path, Command: "trim", Changed: true})
	return true, nil
}
