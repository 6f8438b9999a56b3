package fonts

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/flopp/go-findfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/matzehuels/fiducial/pkg/errors"
)

// Provider is one candidate in a resolution chain.
type Provider interface {
	Name() string
	Open() (Source, error)
}

type providerFunc struct {
	name string
	open func() (Source, error)
}

func (p providerFunc) Name() string          { return p.name }
func (p providerFunc) Open() (Source, error) { return p.open() }

// FileProvider loads a TrueType file from path.
func FileProvider(path string) Provider {
	return providerFunc{
		name: "file:" + path,
		open: func() (Source, error) { return loadFile(path) },
	}
}

// SystemProvider searches the system font directories for each name in turn.
// Names may omit the extension ("DejaVuSans" matches DejaVuSans.ttf).
func SystemProvider(names ...string) Provider {
	return providerFunc{
		name: "system:" + strings.Join(names, ","),
		open: func() (Source, error) {
			var lastErr error
			for _, name := range names {
				path, err := findfont.Find(withExt(name))
				if err != nil {
					lastErr = err
					continue
				}
				return loadFile(path)
			}
			if lastErr == nil {
				lastErr = errors.New(errors.ErrCodeFontUnavailable, "no font names given")
			}
			return nil, lastErr
		},
	}
}

// Embedded typeface names accepted by EmbeddedProvider.
const (
	GoBold    = "go-bold"
	GoRegular = "go-regular"
	GoMono    = "go-mono"
)

var embedded = map[string][]byte{
	GoBold:    gobold.TTF,
	GoRegular: goregular.TTF,
	GoMono:    gomono.TTF,
}

// IsEmbedded reports whether name is one of the compiled-in Go fonts.
func IsEmbedded(name string) bool {
	_, ok := embedded[strings.ToLower(name)]
	return ok
}

// EmbeddedProvider returns one of the Go fonts compiled into the binary.
// An empty name selects GoBold.
func EmbeddedProvider(name string) Provider {
	if name == "" {
		name = GoBold
	}
	name = strings.ToLower(name)
	return providerFunc{
		name: "embedded:" + name,
		open: func() (Source, error) {
			ttf, ok := embedded[name]
			if !ok {
				return nil, errors.New(errors.ErrCodeFontUnavailable, "no embedded font %q", name)
			}
			return parse(name, ttf)
		},
	}
}

// BasicProvider returns the fixed-size bitmap face. It never fails.
func BasicProvider() Provider {
	return providerFunc{
		name: "basic",
		open: func() (Source, error) { return basicSource{}, nil },
	}
}

func loadFile(path string) (Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return parse(name, data)
}

func withExt(name string) string {
	if filepath.Ext(name) != "" {
		return name
	}
	return name + ".ttf"
}
