// Package di contains dependency injection tokens for the tokens context.
package di

import (
	"github.com/fd1az/swap-explorer/business/tokens/app"
	"github.com/fd1az/swap-explorer/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Directory = di.NewToken[*app.Directory]("tokens.Directory")
)

// Private dependency tokens - internal to tokens module
var (
	CatalogSource = di.NewToken[app.CatalogSource]("tokens:catalogSource")
	CatalogCache  = di.NewToken[app.CatalogCache]("tokens:catalogCache")
)

func GetDirectory(c di.ServiceRegistry) *app.Directory {
	return di.GetToken(c, Directory)
}

func GetCatalogSource(c di.ServiceRegistry) app.CatalogSource {
	return di.GetToken(c, CatalogSource)
}

func GetCatalogCache(c di.ServiceRegistry) app.CatalogCache {
	return di.GetToken(c, CatalogCache)
}
