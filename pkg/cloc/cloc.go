// Package cloc reads the per-file JSON report of the cloc line counter
// (cloc --by-file --json) into tree file entries.
//
// The report is an object with a "header" entry, a "SUM" entry and one
// entry per file keyed by its path relative to the scanned directory:
//
//	{
//	  "header": {"cloc_version": "1.96", ...},
//	  "./cmd/main.go": {"blank": 4, "comment": 2, "code": 31, "language": "Go"},
//	  "SUM": {"blank": 4, "comment": 2, "code": 31, "nFiles": 1}
//	}
//
// Malformed reports fail with an [errors.ErrCodeInvalidFormat] error. Paths
// that would escape the project root fail with [errors.ErrCodeInvalidPath].
package cloc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/matzehuels/codexray/pkg/errors"
	"github.com/matzehuels/codexray/pkg/stats"
	"github.com/matzehuels/codexray/pkg/tree"
)

const (
	keyHeader = "header"
	keySum    = "SUM"
	keyPrefix = "./"
)

type fileStats struct {
	Blank    int64  `json:"blank"`
	Comment  int64  `json:"comment"`
	Code     int64  `json:"code"`
	Language string `json:"language"`
}

// Read parses a cloc report. Entries are returned sorted by path.
func Read(r io.Reader) ([]tree.FileEntry, error) {
	var doc map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode cloc report")
	}
	if _, ok := doc[keyHeader]; !ok {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "cloc report has no %q entry", keyHeader)
	}
	if _, ok := doc[keySum]; !ok {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "cloc report has no %q entry", keySum)
	}

	keys := make([]string, 0, len(doc))
	for k := range doc {
		if k != keyHeader && k != keySum {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	files := make([]tree.FileEntry, 0, len(keys))
	for _, k := range keys {
		f, err := parseEntry(k, doc[k])
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

// ReadFile parses the cloc report stored at path.
func ReadFile(path string) ([]tree.FileEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

func parseEntry(key string, raw json.RawMessage) (tree.FileEntry, error) {
	if !strings.HasPrefix(key, keyPrefix) {
		return tree.FileEntry{}, errors.New(errors.ErrCodeInvalidFormat, "file key %q must start with %q", key, keyPrefix)
	}

	var s fileStats
	if err := json.Unmarshal(raw, &s); err != nil {
		return tree.FileEntry{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode entry %q", key)
	}
	if s.Language == "" {
		return tree.FileEntry{}, errors.New(errors.ErrCodeInvalidFormat, "entry %q has no language", key)
	}
	if s.Blank < 0 || s.Comment < 0 || s.Code < 0 {
		return tree.FileEntry{}, errors.New(errors.ErrCodeInvalidFormat, "entry %q has negative line counts", key)
	}

	rel := strings.TrimPrefix(key, keyPrefix)
	dir, name := path.Split(rel)
	dir = strings.TrimSuffix(dir, "/")
	if name == "" {
		return tree.FileEntry{}, errors.New(errors.ErrCodeInvalidFormat, "entry %q has no file name", key)
	}
	if err := errors.ValidatePath(rel); err != nil {
		return tree.FileEntry{}, err
	}

	return tree.FileEntry{
		Name: name,
		Dir:  dir,
		Stats: []stats.Record{{
			Name:    s.Language,
			Code:    s.Code,
			Blank:   s.Blank,
			Comment: s.Comment,
			Files:   1,
		}},
	}, nil
}

// Kind identifies the format of an input document.
type Kind int

const (
	KindUnknown Kind = iota
	KindCloc
	KindTree
)

// Detect reports whether data looks like a cloc report or a serialized
// tree. It only inspects top-level keys.
func Detect(data []byte) Kind {
	var doc map[string]json.RawMessage
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		return KindUnknown
	}
	if _, ok := doc[keyHeader]; ok {
		if _, ok := doc[keySum]; ok {
			return KindCloc
		}
	}
	if _, ok := doc["children"]; ok {
		return KindTree
	}
	return KindUnknown
}
