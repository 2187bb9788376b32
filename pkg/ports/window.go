package ports

import "github.com/aretw0/wayfinder/pkg/domain"

// GeometrySource reports the current window geometry and notifies on changes.
type GeometrySource interface {
	Current() domain.Geometry
	OnChange(fn func(domain.Geometry))
}

// SystemBarController styles the status bar and navigation indicator.
type SystemBarController interface {
	SetStyle(style string)
	RestoreStyle()
}
