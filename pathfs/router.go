// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package pathfs

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// Router dispatches URIs to the providers of their scheme.
type Router struct {
	providers []FileSystemProvider
}

// NewRouter creates a [Router] for the given providers. Providers are tried
// in the given order.
func NewRouter(providers ...FileSystemProvider) *Router {
	return &Router{
		providers: providers,
	}
}

// New creates a [Router] with a [Provider] and a [LayeredProvider] sharing
// one [Registry]. Options apply to both providers.
func New(opts ...Option) *Router {
	cfg := newSettings(opts)
	opts = append(slices.Clip(opts), WithRegistry(cfg.registry))

	return NewRouter(
		NewProvider(opts...),
		NewLayeredProvider(opts...),
	)
}

var defaultRouter = sync.OnceValue(func() *Router {
	return New()
})

// Default returns the process wide [Router] created by [New] on first use.
// Call [Router.Close] to close all its filesystems.
func Default() *Router {
	return defaultRouter()
}

// Providers returns the providers of the router.
func (r *Router) Providers() []FileSystemProvider {
	return r.providers
}

// Provider returns the first provider of the given scheme.
func (r *Router) Provider(scheme string) (FileSystemProvider, error) {
	for _, provider := range r.providers {
		if provider.Scheme() == scheme {
			return provider, nil
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
}

// NewFileSystem creates a filesystem with the providers of the URI's scheme.
// If a provider returns an error matching [ErrNotApplicable], the next
// provider of the scheme is tried.
func (r *Router) NewFileSystem(uri string, env Env) (*FS, error) {
	scheme := schemeOf(uri)
	err := fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)

	for _, provider := range r.providers {
		if provider.Scheme() != scheme {
			continue
		}

		fsys, providerErr := provider.NewFileSystem(uri, env)
		if !errors.Is(providerErr, ErrNotApplicable) {
			return fsys, providerErr
		}

		err = providerErr
	}

	return nil, err
}

// GetFileSystem returns the filesystem of uri from the provider of its
// scheme.
func (r *Router) GetFileSystem(uri string) (*FS, error) {
	provider, err := r.Provider(schemeOf(uri))
	if err != nil {
		return nil, err
	}

	return provider.GetFileSystem(uri) //nolint:wrapcheck
}

// GetPath returns the path of uri from the provider of its scheme.
func (r *Router) GetPath(uri string) (Path, error) {
	provider, err := r.Provider(schemeOf(uri))
	if err != nil {
		return Path{}, err
	}

	return provider.GetPath(uri) //nolint:wrapcheck
}

// Close closes all filesystems in the registries of all providers.
func (r *Router) Close() error {
	var errs []error

	closed := make(map[*Registry]bool)

	for _, provider := range r.providers {
		registry := provider.Registry()
		if closed[registry] {
			continue
		}

		closed[registry] = true

		errs = append(errs, registry.Close())
	}

	return errors.Join(errs...)
}
