package highlight

import "fmt"

// AssetKind is the kind of asset a [Loader] loads.
type AssetKind string

// Asset kinds.
const (
	AssetLanguage AssetKind = "language"
	AssetTheme    AssetKind = "theme"
)

// AssetLoadError is returned when a tokenizer could not be built
// because one of its languages or themes failed to load.
type AssetLoadError struct {
	Kind AssetKind
	ID   string
	Err  error
}

func (e *AssetLoadError) Error() string {
	return fmt.Sprintf("load %v %q: %v", e.Kind, e.ID, e.Err)
}

func (e *AssetLoadError) Unwrap() error {
	return e.Err
}
