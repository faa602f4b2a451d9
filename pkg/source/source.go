// Package source loads the recognised text the parsers work on. Plain text
// files are read as they are; PDFs with a text layer go through pdftotext.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/k12grader/parser/pkg/models"
)

// ErrUnsupported is returned for files that are neither text nor PDF.
var ErrUnsupported = errors.New("unsupported input file")

// ReadText returns the text of a .txt or .pdf file.
func ReadText(ctx context.Context, path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".text", "":
		b, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}
		return string(b), nil
	case ".pdf":
		return extractPDF(ctx, path)
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupported, path)
}

// extractPDF uses pdftotext to extract text content, keeping the layout
// close enough for multi-column answer sheets.
func extractPDF(ctx context.Context, path string) (string, error) {
	cmd := exec.CommandContext(ctx, "pdftotext", "-layout", path, "-")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext %s: %w", path, err)
	}
	return string(output), nil
}

// ReadPages reads one file per answer-sheet page, in the order given.
func ReadPages(ctx context.Context, paths []string) ([]string, error) {
	pages := make([]string, 0, len(paths))
	for _, p := range paths {
		text, err := ReadText(ctx, p)
		if err != nil {
			return nil, err
		}
		pages = append(pages, text)
	}
	return pages, nil
}

// PageFiles lists the readable page files of a submission directory, sorted
// by name so "page01.txt" comes before "page02.txt".
func PageFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".txt", ".text", ".pdf":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// ReadDiagrams loads a diagram side-channel file: a JSON object from
// question number to detected shapes.
func ReadDiagrams(path string) (models.DiagramIndex, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read diagrams: %w", err)
	}
	var idx models.DiagramIndex
	if err := json.Unmarshal(b, &idx); err != nil {
		return nil, fmt.Errorf("decode diagrams %s: %w", path, err)
	}
	return idx, nil
}
