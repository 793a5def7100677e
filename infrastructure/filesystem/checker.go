package filesystem

import (
	"os"

	"sf-content-upload/domain/content"
)

// Checker implements content.FileChecker using the os package
type Checker struct{}

// NewChecker creates a new filesystem checker
func NewChecker() *Checker {
	return &Checker{}
}

// Exists returns true if path names a regular file. Directories cannot be streamed.
func (c *Checker) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Ensure Checker implements content.FileChecker
var _ content.FileChecker = (*Checker)(nil)
