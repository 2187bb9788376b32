package ports

import (
	"context"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// Built is what the content builder produces for one path entry.
type Built struct {
	Handle         domain.RenderHandle
	Mode           domain.Mode
	Reusable       bool
	SystemBarStyle string
	// Nested lists navigation containers hosted inside the built page.
	Nested []string
}

// ContentBuilder instantiates destinations from the declarative description.
// Failure is reported through the boolean, never by panicking.
type ContentBuilder interface {
	CreateNodeByIndex(ctx context.Context, index int, entry domain.PathEntry) (Built, bool)
}

// Releaser is optionally implemented by builders that need to know when a
// destination's render handle is released.
type Releaser interface {
	Release(ctx context.Context, handle domain.RenderHandle)
}
