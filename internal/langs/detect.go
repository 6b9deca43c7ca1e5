package langs

import (
	"path/filepath"

	"github.com/go-enry/go-enry/v2"
)

// Detect guesses the language of a file from its name and contents.
// It returns a name the catalog can resolve,
// or "text" if the language can't be determined.
func (c *Catalog) Detect(fileName string, content []byte) string {
	base := filepath.Base(fileName)
	if fileName != "" {
		// The chroma alias for an extension is often exact.
		if ext := filepath.Ext(base); len(ext) > 1 {
			if id := c.Resolve(ext[1:]); c.Has(id) {
				return id
			}
		}
	}

	var name string
	if len(content) > 0 {
		name = enry.GetLanguage(base, content)
	} else if fileName != "" {
		name, _ = enry.GetLanguageByFilename(base)
		if name == "" {
			name, _ = enry.GetLanguageByExtension(base)
		}
	}
	if name == "" {
		return "text"
	}

	// Linguist names and chroma names mostly agree
	// once they're canonicalized.
	for _, candidate := range []string{name, canonicalName(name)} {
		if id := c.Resolve(candidate); c.Has(id) {
			return id
		}
	}
	return "text"
}
