package load

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// charset pairs a user-facing encoding name with its x/text codec. A nil
// codec means plain UTF-8, which is validated rather than transformed so
// that invalid byte sequences reject the candidate.
type charset struct {
	name  string
	codec encoding.Encoding
}

// fallbackCharsets is the fixed candidate order tried when no encoding is
// forced. UTF-8 goes first because it can reject invalid input, while the
// single-byte charsets accept any byte sequence.
var fallbackCharsets = []charset{
	{"utf-8", nil},
	{"latin-1", charmap.ISO8859_1},
	{"iso-8859-1", charmap.ISO8859_1},
	{"windows-1252", charmap.Windows1252},
	{"utf-16", unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM)},
	{"utf-8-sig", unicode.UTF8BOM},
}

// lookupCharset resolves a forced encoding name, accepting the common
// aliases for each supported charset.
func lookupCharset(name string) (charset, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "utf-8", "utf8":
		return charset{"utf-8", nil}, nil
	case "latin-1", "latin1":
		return charset{"latin-1", charmap.ISO8859_1}, nil
	case "iso-8859-1", "iso8859-1":
		return charset{"iso-8859-1", charmap.ISO8859_1}, nil
	case "windows-1252", "cp1252":
		return charset{"windows-1252", charmap.Windows1252}, nil
	case "utf-16", "utf16":
		return charset{"utf-16", unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM)}, nil
	case "utf-8-sig", "utf8-sig":
		return charset{"utf-8-sig", unicode.UTF8BOM}, nil
	default:
		return charset{}, fmt.Errorf("unknown encoding %q", name)
	}
}

// decodeBytes converts raw file bytes to a UTF-8 string using the charset.
func decodeBytes(cs charset, data []byte) (string, error) {
	if cs.codec == nil {
		if !utf8.Valid(data) {
			return "", fmt.Errorf("invalid UTF-8 byte sequence")
		}
		return string(data), nil
	}
	decoded, err := cs.codec.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode as %s: %w", cs.name, err)
	}
	return string(decoded), nil
}
