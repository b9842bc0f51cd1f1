package storage

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/rl1809/stockpile/internal/core/domain"
)

var ErrMalformedRecord = errors.New("malformed inventory record")

// FileAdapter persists the inventory mapping as UTF-8 text, one
// `<name>:<qty>` record per line with a trailing newline. The format is
// a fixed grammar; records are never evaluated, only parsed.
type FileAdapter struct {
	path string
}

func NewFileAdapter(path string) *FileAdapter {
	return &FileAdapter{path: path}
}

func (f *FileAdapter) Path() string {
	return f.path
}

func (f *FileAdapter) Load(ctx context.Context) (map[string]int, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot %s: %w", f.path, err)
	}
	defer file.Close()

	items := make(map[string]int)
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		name, qtyField, found := strings.Cut(line, domain.SnapshotDelimiter)
		if !found || name == "" || strings.Contains(qtyField, domain.SnapshotDelimiter) {
			return nil, fmt.Errorf("%w: line %d: %q", ErrMalformedRecord, lineNo, line)
		}

		qty, err := strconv.Atoi(qtyField)
		if err != nil || qty < 0 {
			return nil, fmt.Errorf("%w: line %d: %q: quantity must be a non-negative integer", ErrMalformedRecord, lineNo, line)
		}

		// Zero-quantity records are well formed but represent an absent
		// item; the in-memory mapping holds positive quantities only.
		if qty == 0 {
			continue
		}
		items[name] = qty
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", f.path, err)
	}

	return items, nil
}

func (f *FileAdapter) Save(ctx context.Context, items map[string]int) error {
	file, err := os.Create(f.path)
	if err != nil {
		return fmt.Errorf("create snapshot %s: %w", f.path, err)
	}

	names := make([]string, 0, len(items))
	for name := range items {
		names = append(names, name)
	}
	sort.Strings(names)

	w := bufio.NewWriter(file)
	for _, name := range names {
		if _, err := fmt.Fprintf(w, "%s%s%d\n", name, domain.SnapshotDelimiter, items[name]); err != nil {
			file.Close()
			return fmt.Errorf("write snapshot %s: %w", f.path, err)
		}
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("write snapshot %s: %w", f.path, err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("close snapshot %s: %w", f.path, err)
	}
	return nil
}
