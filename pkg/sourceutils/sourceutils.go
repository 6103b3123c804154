// Package sourceutils reads markup from files and streams and converts it to
// UTF-8 before it reaches the parser.
package sourceutils

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

var ErrUnknownEncoding = errors.New("unknown encoding")

// declaresCharset reports whether the content type names a charset.
func declaresCharset(contentType string) bool {
	if contentType == "" {
		return false
	}
	_, params, err := mime.ParseMediaType(contentType)
	return err == nil && params["charset"] != ""
}

// Decode reads r to the end and returns it as UTF-8.
//
// A non-empty label (`windows-1251`, `latin1`, ...) selects the encoding
// explicitly, then a charset in the content type does. Without either, input
// that is valid UTF-8 as a whole is returned unchanged, anything else goes
// through detection by BOM and `<meta charset>`, falling back to
// windows-1252 as browsers do.
func Decode(r io.Reader, contentType, label string) ([]byte, error) {
	var enc encoding.Encoding
	if label != "" {
		var err error
		if enc, err = htmlindex.Get(label); err != nil {
			return nil, errors.Join(ErrUnknownEncoding, fmt.Errorf("label %q", label))
		}
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading markup: %w", err)
	}

	if enc == nil {
		if !declaresCharset(contentType) && utf8.Valid(data) {
			return data, nil
		}
		enc, _, _ = charset.DetermineEncoding(data, contentType)
	}

	decoded, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return nil, fmt.Errorf("decoding markup: %w", err)
	}
	return decoded, nil
}

// ReadFile opens a markup file and decodes it with Decode.
func ReadFile(filename, label string) ([]byte, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return Decode(f, "", label)
}
