// Package types provides type definitions for structured data used throughout the ats-matcher system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// Media types accepted for resume uploads.
const (
	MediaTypeText = "text/plain"
	MediaTypePDF  = "application/pdf"
	MediaTypeDOC  = "application/msword"
	MediaTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// SupportedMediaTypes lists the media types the extractor can decode, in display order.
var SupportedMediaTypes = []string{MediaTypeText, MediaTypePDF, MediaTypeDOC, MediaTypeDOCX}

// RawDocument is an uploaded resume as received from the caller.
// It is owned by a single analysis and is not retained after text extraction.
type RawDocument struct {
	Data      []byte
	MediaType string
	FileName  string
}

// Size returns the document size in bytes.
func (d RawDocument) Size() int64 {
	return int64(len(d.Data))
}

// BaseMediaType returns the declared media type lower-cased and stripped of
// parameters such as "; charset=utf-8".
func (d RawDocument) BaseMediaType() string {
	mt := d.MediaType
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	return strings.ToLower(strings.TrimSpace(mt))
}

// IsSupportedMediaType reports whether mt (without parameters) is one of SupportedMediaTypes.
func IsSupportedMediaType(mt string) bool {
	for _, s := range SupportedMediaTypes {
		if s == mt {
			return true
		}
	}
	return false
}
