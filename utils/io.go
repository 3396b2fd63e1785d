package utils

import (
	"fmt"
	"io"
	"os"
)

// Stdin is the input name meaning standard input.
const Stdin = "-"

// OpenInput opens the file at path for reading. Stdin, or an empty path, reads
// from stdin instead. Closing stdin this way is a no-op, so callers can always
// defer Close.
func OpenInput(path string, stdin io.Reader) (io.ReadCloser, error) {
	if path == "" || path == Stdin {
		return io.NopCloser(stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("fail to open input: %w", err)
	}
	return f, nil
}

// InputName returns the name of the input for error messages.
func InputName(path string) string {
	if path == "" || path == Stdin {
		return "<stdin>"
	}
	return path
}
