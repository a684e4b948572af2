package smap

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ValentinKolb/sortedkv/lib/sortedmap"
)

// maxLineSize bounds a single input line
const maxLineSize = 1 << 20

// ReadEntries parses key<sep>value lines. The key ends at the first
// separator, so values may contain it. Empty lines are skipped, a line
// without separator is an error.
func ReadEntries(r io.Reader, sep string) ([]sortedmap.Entry[string], error) {
	if sep == "" {
		return nil, errors.New("separator must not be empty")
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var entries []sortedmap.Entry[string]
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		key, value, found := strings.Cut(line, sep)
		if !found {
			return nil, fmt.Errorf("line %d: missing separator %q", lineNo, sep)
		}
		entries = append(entries, sortedmap.Entry[string]{Key: key, Value: value})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return entries, nil
}
