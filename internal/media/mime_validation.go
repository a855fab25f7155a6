package media

import (
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/angelmondragon/sellercenter-backend/pkg/enums"
)

// sniffLen is how many leading bytes classification looks at.
const sniffLen = 3072

var allowedMimeTypes = map[enums.MediaType][]string{
	enums.MediaTypeImage: {"image/jpeg", "image/png", "image/webp", "image/gif"},
	enums.MediaTypeVideo: {"video/mp4", "video/webm", "video/quicktime"},
}

var mimeDescriptions = map[enums.MediaType]string{
	enums.MediaTypeImage: humanReadableList([]string{"JPEG", "PNG", "WebP", "GIF"}),
	enums.MediaTypeVideo: humanReadableList([]string{"MP4", "WebM", "MOV"}),
}

type classification struct {
	mediaType enums.MediaType
	mime      string
	ext       string
}

// classify sniffs head and matches it against the allow-lists. The client's
// declared content type is never trusted.
func classify(head []byte) (*classification, error) {
	detected := mimetype.Detect(head)
	for m := detected; m != nil; m = m.Parent() {
		for mediaType, allowed := range allowedMimeTypes {
			for _, candidate := range allowed {
				if m.Is(candidate) {
					return &classification{mediaType: mediaType, mime: candidate, ext: m.Extension()}, nil
				}
			}
		}
	}
	return nil, fmt.Errorf("unsupported file type %s: only %s images or %s videos are allowed",
		detected.String(), mimeDescriptions[enums.MediaTypeImage], mimeDescriptions[enums.MediaTypeVideo])
}

func humanReadableList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return fmt.Sprintf("%s or %s", items[0], items[1])
	default:
		return fmt.Sprintf("%s, or %s", strings.Join(items[:len(items)-1], ", "), items[len(items)-1])
	}
}
