package fonts

import (
	"os"
	"strings"

	"github.com/matzehuels/fiducial/pkg/errors"
)

// Resolve opens providers in order and returns the first source that loads.
//
// Every provider skipped on the way yields a RENDER_RESOURCE_UNAVAILABLE
// warning. Resolve never fails: when every provider fails, the basic bitmap
// face is returned.
func Resolve(providers ...Provider) (Source, []error) {
	var warnings []error
	for _, p := range providers {
		src, err := p.Open()
		if err == nil {
			return src, warnings
		}
		warnings = append(warnings, errors.Wrap(errors.ErrCodeFontUnavailable, err, "font %s unavailable", p.Name()))
	}
	return basicSource{}, warnings
}

// DefaultChain is the resolution order for a requested font.
//
// requested may be a file path, an embedded font name or a system font name.
// It is tried first when set, followed by the embedded Go Bold face and the
// basic bitmap face. An empty request resolves to Go Bold, which keeps output
// identical across machines.
func DefaultChain(requested string) []Provider {
	var chain []Provider
	switch r := strings.TrimSpace(requested); {
	case r == "":
	case IsEmbedded(r):
		chain = append(chain, EmbeddedProvider(r))
	case isFile(r):
		chain = append(chain, FileProvider(r))
	default:
		chain = append(chain, SystemProvider(r))
	}
	return append(chain, EmbeddedProvider(GoBold), BasicProvider())
}

func isFile(path string) bool {
	if !strings.ContainsAny(path, `/\`) && !strings.HasSuffix(strings.ToLower(path), ".ttf") {
		return false
	}
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}
