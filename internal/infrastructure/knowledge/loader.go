// Package knowledge loads seedable documents from a directory tree.
// Plain text, markdown and PDF files are supported; everything else is
// skipped with a log line.
package knowledge

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/stratlab/strategic-agent/internal/core/domain"
)

type Loader struct{}

func NewLoader() *Loader {
	return &Loader{}
}

func (l *Loader) Load(ctx context.Context, dir string) ([]domain.KnowledgeDocument, error) {
	var docs []domain.KnowledgeDocument

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			return nil
		}

		var text string
		switch strings.ToLower(filepath.Ext(path)) {
		case ".txt", ".md":
			text, err = readTextFile(path)
		case ".pdf":
			text, err = readPDF(path)
		default:
			slog.Debug("knowledge_file_skipped", "path", path)
			return nil
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		text = strings.TrimSpace(text)
		if text == "" {
			slog.Warn("knowledge_file_empty", "path", path)
			return nil
		}

		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			rel = filepath.Base(path)
		}
		docs = append(docs, domain.KnowledgeDocument{Source: rel, Text: text})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func readTextFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func readPDF(path string) (string, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}
	data, err := io.ReadAll(plain)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
