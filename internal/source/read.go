package source

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

var (
	ErrIoUnavailable   = errors.New("io unavailable")
	ErrStaleVersion    = errors.New("stale version")
	ErrUnknownDocument = errors.New("unknown document")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadFile loads a source file from disk, decoding Shift-JIS when the
// content is not valid UTF-8.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrIoUnavailable, err)
	}
	text, err := Decode(data)
	if err != nil {
		return "", fmt.Errorf("%w: %s", err, path)
	}
	return text, nil
}

// Decode turns raw file contents into text.
func Decode(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data), nil
	}

	out, _, err := transform.Bytes(japanese.ShiftJIS.NewDecoder(), data)
	if err != nil {
		return "", fmt.Errorf("%w: shift_jis: %w", ErrIoUnavailable, err)
	}
	return string(out), nil
}
