package extraction

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// decodePlainText decodes text bytes. UTF-16 input is recognized by its byte
// order mark; everything else is read as UTF-8 with invalid sequences replaced.
// It never fails.
func decodePlainText(data []byte) (string, error) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		data = data[len(bomUTF8):]
	case bytes.HasPrefix(data, bomUTF16LE):
		if text, err := decodeUTF16(data[2:], false); err == nil {
			return text, nil
		}
	case bytes.HasPrefix(data, bomUTF16BE):
		if text, err := decodeUTF16(data[2:], true); err == nil {
			return text, nil
		}
	}
	return strings.ToValidUTF8(string(data), string(utf8.RuneError)), nil
}

// decodeUTF16 decodes BOM-less UTF-16. Unpaired surrogates become U+FFFD.
func decodeUTF16(data []byte, bigEndian bool) (string, error) {
	order := unicode.LittleEndian
	if bigEndian {
		order = unicode.BigEndian
	}
	out, err := unicode.UTF16(order, unicode.IgnoreBOM).NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
