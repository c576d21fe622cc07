/**
 * Character encoding resolution
 *
 * Text sources are decoded to UTF-8 before parsing. Encoding names
 * resolve through the IANA registry, so any of the registered aliases
 * (latin1, ISO-8859-1, windows-1252, shift_jis, ...) work.
 */

package processor

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
)

// resolveEncoding wraps r with a decoder for the named encoding. The
// empty name and the UTF-8 aliases pass the reader through untouched.
func resolveEncoding(r io.Reader, name string) (io.Reader, error) {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8":
		return r, nil
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("unsupported encoding: %s", name)
	}
	return enc.NewDecoder().Reader(r), nil
}

// decodeBytes converts data from the named encoding to UTF-8.
func decodeBytes(data []byte, name string) ([]byte, error) {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8":
		return data, nil
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("unsupported encoding: %s", name)
	}
	return enc.NewDecoder().Bytes(data)
}
