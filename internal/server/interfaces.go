package server

import "context"

// Server defines the common lifecycle contract for transport servers managed
// by this package.
type Server interface {
	// Run serves requests until ctx is done, then shuts every transport down
	// gracefully. It returns the first serve error, if any.
	Run(ctx context.Context) error
}

type transport interface {
	serve() error
	shutdown(ctx context.Context) error
	name() string
}
