package files

import (
	"path/filepath"
	"strings"
)

// contentTypes maps file name extensions to the Content-Type served
// for blob retrieval. The table is deliberately static: content type
// is a presentation concern derived from the record's name, not
// sniffed from bytes.
var contentTypes = map[string]string{
	".txt":  "text/plain",
	".html": "text/html",
	".css":  "text/css",
	".csv":  "text/csv",
	".md":   "text/markdown",
	".json": "application/json",
	".pdf":  "application/pdf",
	".xml":  "application/xml",
	".zip":  "application/zip",
	".js":   "text/javascript",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
	".mp3":  "audio/mpeg",
	".mp4":  "video/mp4",
}

// DefaultContentType is served for unknown extensions.
const DefaultContentType = "application/octet-stream"

// ContentTypeFor resolves the Content-Type for a file name.
func ContentTypeFor(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	return DefaultContentType
}
