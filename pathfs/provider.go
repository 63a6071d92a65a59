// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package pathfs

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
)

const (
	// SchemePath is the URI scheme of [Provider].
	SchemePath = "path"

	// TargetOption is the [Env] key of the target of a new filesystem.
	TargetOption = "packagePath"

	schemeSeparator = ":"
)

// Env carries options for new filesystems.
//
// The value of [TargetOption] may be a string with a path on disk, a
// [DiskTarget] or a [Path].
type Env map[string]any

// FileSystemProvider creates filesystems and resolves URIs of one scheme.
type FileSystemProvider interface {
	// Scheme returns the URI scheme the provider serves.
	Scheme() string

	// NewFileSystem returns the filesystem for the given URI, creating it if
	// necessary. Errors matching [ErrNotApplicable] indicate that another
	// provider may serve the request.
	NewFileSystem(uri string, env Env) (*FS, error)

	// GetFileSystem returns the filesystem that owns the given URI.
	GetFileSystem(uri string) (*FS, error)

	// GetPath returns the path addressed by the given URI.
	GetPath(uri string) (Path, error)

	// Registry returns the registry filesystems are kept in.
	Registry() *Registry
}

// provider is a [FileSystemProvider] owning filesystems. The hooks define how
// paths of its filesystems are parsed, resolved and rendered.
type provider interface {
	FileSystemProvider

	settings() *settings
	renderURI(p Path) string
	adaptResolved(p Path) Path
	adaptElems(raw string, elems []element) []element
}

type settings struct {
	registry    *Registry
	opener      Opener
	logger      *slog.Logger
	volumeNames bool
}

func newSettings(opts []Option) *settings {
	cfg := &settings{
		opener:      OpenArchive,
		volumeNames: runtime.GOOS == "windows",
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.registry == nil {
		cfg.registry = NewRegistry()
	}

	return cfg
}

func (s *settings) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}

	return slog.Default()
}

// Option configures providers.
type Option func(*settings)

// WithRegistry sets the registry filesystems are kept in. Providers sharing a
// registry are closed together, but only see the filesystems of their own
// scheme.
func WithRegistry(registry *Registry) Option {
	return func(s *settings) {
		s.registry = registry
	}
}

// WithOpener sets the [Opener] of delegates. Default is [OpenArchive].
func WithOpener(opener Opener) Option {
	return func(s *settings) {
		s.opener = opener
	}
}

// WithLogger sets the logger. Default is [slog.Default] at the time of
// logging.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithVolumeNames sets whether absolute disk paths in URIs may start with a
// volume name, like "/C:/archive.zip". Default is true on Windows only.
func WithVolumeNames(enabled bool) Option {
	return func(s *settings) {
		s.volumeNames = enabled
	}
}

var (
	_ provider = (*Provider)(nil)
	_ provider = (*LayeredProvider)(nil)
)

// Provider serves single layer URIs of the form "path:<key>~<leaf>".
//
// Filesystems must be created with an explicit target, either by
// [Provider.NewFileSystem] with [TargetOption] or by
// [Provider.NewFileSystemFor]. URIs then address paths in them by key.
type Provider struct {
	cfg *settings
}

// NewProvider creates a new [Provider].
func NewProvider(opts ...Option) *Provider {
	return &Provider{
		cfg: newSettings(opts),
	}
}

// Scheme returns [SchemePath].
func (*Provider) Scheme() string {
	return SchemePath
}

// Registry returns the registry filesystems are kept in.
func (p *Provider) Registry() *Registry {
	return p.cfg.registry
}

// NewFileSystem returns the filesystem for the key given by uri. If there is
// none yet, it is created for the target given in env. The target is
// required even if the filesystem exists already.
//
// It returns [ErrMissingTarget] if env has no target.
func (p *Provider) NewFileSystem(uri string, env Env) (*FS, error) {
	return newFileSystem(p, uri, env)
}

// NewFileSystemFor creates a new filesystem for target, keyed by the file
// name of the target.
//
// Different targets with equal file names result in equal keys. In that case,
// the first filesystem stays registered, a warning is logged and the new
// filesystem is returned without being registered.
func (p *Provider) NewFileSystemFor(target Target) (*FS, error) {
	normalized, err := targetFromOption(target)
	if err != nil {
		return nil, err
	}

	key := normalized.targetName()
	fsys := newFS(p, key, normalized)

	if !p.cfg.registry.register(fsys) {
		p.cfg.log().Warn("filesystem key taken, keeping first",
			"key", key,
			"target", normalized.String(),
		)
	}

	return fsys, nil
}

// GetFileSystem returns the registered filesystem for the key given by uri.
func (p *Provider) GetFileSystem(uri string) (*FS, error) {
	ssp, err := schemeSpecificPart(SchemePath, uri)
	if err != nil {
		return nil, err
	}

	owner, _, _ := splitLeaf(uriKey(ssp))

	return lookupFileSystem(p, uri, owner)
}

// GetPath returns the path addressed by uri in the registered filesystem
// for the key given by uri. Without leaf, the root path is returned.
func (p *Provider) GetPath(uri string) (Path, error) {
	ssp, err := schemeSpecificPart(SchemePath, uri)
	if err != nil {
		return Path{}, err
	}

	return getKeyedPath(p, uri, uriKey(ssp))
}

func (p *Provider) settings() *settings {
	return p.cfg
}

func (*Provider) renderURI(p Path) string {
	return SchemePath + schemeSeparator + p.fsys.key + LayerMarker +
		p.absoluteString()
}

func (*Provider) adaptResolved(p Path) Path {
	return p
}

func (*Provider) adaptElems(_ string, elems []element) []element {
	return elems
}

// newFileSystem gets or creates the filesystem of owner for the key given by
// uri and the target given in env.
func newFileSystem(owner provider, uri string, env Env) (*FS, error) {
	target, err := targetFromOption(env[TargetOption])
	if err != nil {
		return nil, fmt.Errorf("new filesystem %s: %w", uri, err)
	}

	ssp, err := schemeSpecificPart(owner.Scheme(), uri)
	if err != nil {
		return nil, err
	}

	key := uriKey(ssp)
	create := func() *FS {
		return newFS(owner, key, target)
	}

	return owner.settings().registry.getOrCreate(owner.Scheme(), key, create), nil
}

// getKeyedPath returns the path for key, which is an owner key optionally
// followed by [LayerMarker] and a leaf path.
func getKeyedPath(owner provider, uri, key string) (Path, error) {
	ownerKey, leaf, hasLeaf := splitLeaf(key)

	fsys, err := lookupFileSystem(owner, uri, ownerKey)
	if err != nil {
		return Path{}, err
	}

	if !hasLeaf || leaf == "" {
		return fsys.Root(), nil
	}

	return fsys.Path(leaf), nil
}

// lookupFileSystem returns the filesystem of owner registered with key.
func lookupFileSystem(owner provider, uri, key string) (*FS, error) {
	fsys, err := owner.settings().registry.Lookup(owner.Scheme(), key)
	if err != nil {
		var lookupErr *LookupError
		if errors.As(err, &lookupErr) {
			lookupErr.URI = uri
		}

		return nil, err
	}

	return fsys, nil
}

func schemeOf(uri string) string {
	scheme, _, _ := strings.Cut(uri, schemeSeparator)
	return scheme
}

func schemeSpecificPart(scheme, uri string) (string, error) {
	prefix, ssp, found := strings.Cut(uri, schemeSeparator)
	if !found || prefix != scheme {
		return "", fmt.Errorf("%w: %q: expected scheme %q", ErrMalformedURI,
			uri, scheme)
	}

	return ssp, nil
}

// uriKey returns the key of a scheme specific part.
func uriKey(ssp string) string {
	return strings.TrimPrefix(ssp, "//")
}

// splitLeaf splits key at the last [LayerMarker] into owner key and leaf.
func splitLeaf(key string) (string, string, bool) {
	idx := strings.LastIndex(key, LayerMarker)
	if idx < 0 {
		return key, "", false
	}

	return key[:idx], key[idx+len(LayerMarker):], true
}
