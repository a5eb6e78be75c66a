// Package di contains dependency injection tokens for the explorer context.
package di

import (
	"github.com/fd1az/swap-explorer/business/explorer/app"
	"github.com/fd1az/swap-explorer/business/explorer/infra/restapi"
	"github.com/fd1az/swap-explorer/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Explorer   = di.NewToken[*app.Explorer]("explorer.Explorer")
	APIHandler = di.NewToken[*restapi.Handler]("explorer.APIHandler")
)

func GetExplorer(c di.ServiceRegistry) *app.Explorer {
	return di.GetToken(c, Explorer)
}

func GetAPIHandler(c di.ServiceRegistry) *restapi.Handler {
	return di.GetToken(c, APIHandler)
}
