package locator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// FileClass identifies which rules apply to a discovered file
type FileClass int

const (
	ClassBuildFile FileClass = iota
	ClassManifest
)

func (c FileClass) String() string {
	switch c {
	case ClassBuildFile:
		return "buildfile"
	case ClassManifest:
		return "manifest"
	default:
		return "unknown"
	}
}

// ParseFileClass maps a config string to a FileClass
func ParseFileClass(s string) (FileClass, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buildfile", "build_file", "dockerfile":
		return ClassBuildFile, true
	case "manifest", "kubernetes", "yaml":
		return ClassManifest, true
	default:
		return 0, false
	}
}

// DiscoveredFile is a file found under one of the audit roots
type DiscoveredFile struct {
	Path  string
	Class FileClass
}

// Files holds the discovered files of both classes
type Files struct {
	BuildFiles []DiscoveredFile
	Manifests  []DiscoveredFile
}

// Of returns the files of the given class
func (f Files) Of(class FileClass) ([]DiscoveredFile, error) {
	switch class {
	case ClassBuildFile:
		return f.BuildFiles, nil
	case ClassManifest:
		return f.Manifests, nil
	default:
		return nil, fmt.Errorf("unknown file class %d", int(class))
	}
}

// Roots are the directories searched for each file class
type Roots struct {
	BuildRoot    string
	ManifestRoot string
}

// ErrPathNotFound is returned when an audit root does not exist
var ErrPathNotFound = errors.New("path not found")

// PathError describes a missing or unusable root directory
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

// Is reports ErrPathNotFound for every PathError
func (e *PathError) Is(target error) bool { return target == ErrPathNotFound }

// DefaultBuildFileNames are the base names treated as build files
var DefaultBuildFileNames = []string{"Dockerfile"}

// DefaultManifestExtensions are the extensions treated as manifests
var DefaultManifestExtensions = []string{".yml", ".yaml"}

type options struct {
	buildNames []string
	manifestEx []string
	ignore     []string
	logger     zerolog.Logger
}

// Option configures Locate
type Option func(*options)

// WithBuildFileNames overrides the base names matched as build files
func WithBuildFileNames(names ...string) Option {
	return func(o *options) {
		if len(names) > 0 {
			o.buildNames = names
		}
	}
}

// WithManifestExtensions overrides the manifest extensions (leading dot optional)
func WithManifestExtensions(exts ...string) Option {
	return func(o *options) {
		if len(exts) == 0 {
			return
		}
		o.manifestEx = make([]string, 0, len(exts))
		for _, e := range exts {
			if !strings.HasPrefix(e, ".") {
				e = "." + e
			}
			o.manifestEx = append(o.manifestEx, strings.ToLower(e))
		}
	}
}

// WithIgnore skips entries whose root-relative slash path matches a glob
func WithIgnore(patterns ...string) Option {
	return func(o *options) {
		o.ignore = append(o.ignore, patterns...)
	}
}

// WithLogger sets the logger used for skipped entries
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// Locate walks both roots and returns the build files and manifests found.
// A root without matches yields an empty set, not an error.
func Locate(ctx context.Context, roots Roots, opts ...Option) (Files, error) {
	o := &options{
		buildNames: DefaultBuildFileNames,
		manifestEx: DefaultManifestExtensions,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}

	// Both roots are checked before walking so a bad manifest root fails fast
	for _, root := range []string{roots.BuildRoot, roots.ManifestRoot} {
		if err := checkRoot(root); err != nil {
			return Files{}, err
		}
	}

	var files Files
	var err error

	files.BuildFiles, err = walk(ctx, roots.BuildRoot, ClassBuildFile, o.isBuildFile, o)
	if err != nil {
		return Files{}, err
	}
	files.Manifests, err = walk(ctx, roots.ManifestRoot, ClassManifest, o.isManifest, o)
	if err != nil {
		return Files{}, err
	}

	o.logger.Debug().
		Int("build_files", len(files.BuildFiles)).
		Int("manifests", len(files.Manifests)).
		Msg("discovery complete")

	return files, nil
}

func checkRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return &PathError{Path: root, Err: err}
	}
	if !info.IsDir() {
		return &PathError{Path: root, Err: errors.New("not a directory")}
	}
	return nil
}

func (o *options) isBuildFile(name string) bool {
	for _, n := range o.buildNames {
		if name == n {
			return true
		}
	}
	return false
}

func (o *options) isManifest(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range o.manifestEx {
		if ext == e {
			return true
		}
	}
	return false
}

func (o *options) ignored(root, p string) bool {
	if len(o.ignore) == 0 {
		return false
	}
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range o.ignore {
		if ok, _ := path.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func walk(ctx context.Context, root string, class FileClass, match func(string) bool, o *options) ([]DiscoveredFile, error) {
	found := []DiscoveredFile{}

	// WalkDir does not descend into a symlinked root, so walk its target
	// and report paths under the root as given.
	resolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, &PathError{Path: root, Err: err}
	}

	err = filepath.WalkDir(resolved, func(p string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if p != resolved && (errors.Is(err, fs.ErrPermission) || errors.Is(err, fs.ErrNotExist)) {
				o.logger.Debug().Err(err).Str("path", p).Msg("skipping entry")
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			return err
		}

		if p != resolved && o.ignored(resolved, p) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if match(d.Name()) {
			found = append(found, DiscoveredFile{Path: underRoot(root, resolved, p), Class: class})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	return found, nil
}

// underRoot rewrites p, found below resolved, as a path below root
func underRoot(root, resolved, p string) string {
	if root == resolved {
		return p
	}
	rel, err := filepath.Rel(resolved, p)
	if err != nil {
		return p
	}
	return filepath.Join(root, rel)
}
