package imageurl

import (
	"path"
	"path/filepath"
	"strings"
)

// Prefix is the public root under which the data dir is served.
const Prefix = "/data"

// URLs holds the public locations of the variants of one image.
type URLs struct {
	URL       string
	Corrected string
	Raw       string
	Thumb     string
}

// Build composes public URLs from paths relative to the data dir. Missing
// variants yield empty strings; URL prefers corrected, then raw, then thumb.
func Build(rawPath, correctedPath, thumbPath string) URLs {
	u := URLs{
		Raw:       public(rawPath),
		Corrected: public(correctedPath),
		Thumb:     public(thumbPath),
	}

	switch {
	case u.Corrected != "":
		u.URL = u.Corrected
	case u.Raw != "":
		u.URL = u.Raw
	default:
		u.URL = u.Thumb
	}

	return u
}

func public(rel string) string {
	if rel == "" {
		return ""
	}

	rel = filepath.ToSlash(rel)
	rel = strings.TrimPrefix(rel, "./")
	rel = strings.TrimPrefix(rel, "data/")

	return path.Join(Prefix, rel)
}
