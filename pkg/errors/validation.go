package errors

import (
	"strings"
	"unicode"
)

// ValidatePath validates a directory path relative to a project root.
// It rejects anything that could escape the root once joined with it.
//
// Validation rules:
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No ".." segments
//   - No backslashes (Windows-style paths)
//
// The empty path is valid and denotes the project root itself.
func ValidatePath(path string) error {
	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	for _, seg := range strings.Split(path, "/") {
		if seg == ".." {
			return New(ErrCodeInvalidPath, "path %q escapes the project root", path)
		}
	}

	return nil
}

// ValidateProjectName validates a project name. Project names become the
// first segment of every node path, so they may not contain separators.
func ValidateProjectName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidProject, "project name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidProject, "project name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidProject, "project name contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidProject, "project name cannot contain path separators")
	}

	if name == "." || name == ".." {
		return New(ErrCodeInvalidProject, "project name %q is reserved", name)
	}

	return nil
}
