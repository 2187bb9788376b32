package middleware

import "github.com/aretw0/wayfinder/pkg/ports"

// Middleware allows wrapping a StackStore to add behavior.
type Middleware func(ports.StackStore) ports.StackStore

// Chain applies middlewares so that the first one listed is the outermost.
func Chain(store ports.StackStore, mws ...Middleware) ports.StackStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
