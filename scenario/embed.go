package scenario

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

// LoadEmbedded compiles a scenario shipped inside the binary by file name.
func LoadEmbedded(name string, art Artillery) (*Runner, error) {
	src, err := fs.ReadFile(ScriptsFS, "scripts/"+name)
	if err != nil {
		return nil, fmt.Errorf("scenario: read embedded %s: %w", name, err)
	}
	return New(src, art)
}
