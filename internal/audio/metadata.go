package audio

import (
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2/v2"
)

// Metadata holds track information used for display and output naming.
type Metadata struct {
	Title  string
	Artist string
}

// ReadMetadata reads ID3v2 tags from an MP3 file, falling back to the
// filename for untagged or non-MP3 sources.
func ReadMetadata(path string) Metadata {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err == nil {
		defer tag.Close()
		m := Metadata{
			Title:  strings.TrimSpace(tag.Title()),
			Artist: strings.TrimSpace(tag.Artist()),
		}
		if m.Title != "" {
			return m
		}
	}

	base := filepath.Base(path)
	return Metadata{Title: strings.TrimSuffix(base, filepath.Ext(base))}
}

// Display returns "Artist - Title" or just the title when no artist
// tag is present.
func (m Metadata) Display() string {
	if m.Artist != "" {
		return m.Artist + " - " + m.Title
	}
	return m.Title
}
