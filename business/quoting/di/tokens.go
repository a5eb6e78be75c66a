// Package di contains dependency injection tokens for the quoting context.
package di

import (
	"github.com/fd1az/swap-explorer/business/quoting/app"
	"github.com/fd1az/swap-explorer/internal/di"
)

// Public service tokens - exposed to other modules
var (
	RouteSource = di.NewToken[app.RouteSource]("quoting.RouteSource")
)

func GetRouteSource(c di.ServiceRegistry) app.RouteSource {
	return di.GetToken(c, RouteSource)
}
