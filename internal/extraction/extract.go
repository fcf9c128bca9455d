// Package extraction converts uploaded resume documents into normalized plain text.
package extraction

import (
	"github.com/jonathan/ats-matcher/internal/types"
)

// DefaultMaxBytes is the upload size ceiling used when none is configured (5 MB).
const DefaultMaxBytes int64 = 5 * 1024 * 1024

// DefaultMaxChars bounds the length of extracted text handed to the tokenizer.
const DefaultMaxChars = 100_000

type decodeFunc func(data []byte) (string, error)

var decoders = map[string]decodeFunc{
	types.MediaTypeText: decodePlainText,
	types.MediaTypePDF:  decodePDF,
	types.MediaTypeDOC:  decodeDOC,
	types.MediaTypeDOCX: decodeDOCX,
}

// Validate checks the declared metadata of raw without reading its contents.
// It returns an *UnsupportedFormatError or *FileTooLargeError on failure.
// A maxBytes of zero or less disables the size check.
func Validate(raw types.RawDocument, maxBytes int64) error {
	mt := raw.BaseMediaType()
	if !types.IsSupportedMediaType(mt) {
		return &UnsupportedFormatError{MediaType: raw.MediaType, FileName: raw.FileName}
	}
	if maxBytes > 0 && raw.Size() > maxBytes {
		return &FileTooLargeError{Size: raw.Size(), Limit: maxBytes}
	}
	return nil
}

// Extract decodes raw according to its media type and returns normalized text
// of at most maxChars runes (no limit when maxChars <= 0).
// Bytes that do not match the declared format yield an *ExtractionError.
func Extract(raw types.RawDocument, maxChars int) (string, error) {
	mt := raw.BaseMediaType()
	decode, ok := decoders[mt]
	if !ok {
		return "", &UnsupportedFormatError{MediaType: raw.MediaType, FileName: raw.FileName}
	}

	text, err := decode(raw.Data)
	if err != nil {
		return "", &ExtractionError{MediaType: mt, FileName: raw.FileName, Cause: err}
	}

	return NormalizeText(text, maxChars), nil
}
