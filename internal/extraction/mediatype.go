package extraction

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/jonathan/ats-matcher/internal/types"
)

var extensionMediaTypes = map[string]string{
	".txt":  types.MediaTypeText,
	".text": types.MediaTypeText,
	".pdf":  types.MediaTypePDF,
	".doc":  types.MediaTypeDOC,
	".docx": types.MediaTypeDOCX,
}

// ResolveMediaType picks the media type for an upload. A declared supported
// type is kept as is, and so is an explicit unsupported one so that Validate
// rejects it. Generic declarations (empty or application/octet-stream) are
// resolved by file extension and then by sniffing head.
func ResolveMediaType(declared, fileName string, head []byte) string {
	base := baseType(declared)
	if types.IsSupportedMediaType(base) {
		return base
	}
	if base != "" && base != "application/octet-stream" {
		return declared
	}

	if mt, ok := extensionMediaTypes[strings.ToLower(filepath.Ext(fileName))]; ok {
		return mt
	}

	if len(head) > 0 {
		for m := mimetype.Detect(head); m != nil; m = m.Parent() {
			if mt := baseType(m.String()); types.IsSupportedMediaType(mt) {
				return mt
			}
		}
	}

	if base == "" {
		return "application/octet-stream"
	}
	return declared
}

func baseType(mt string) string {
	return types.RawDocument{MediaType: mt}.BaseMediaType()
}
