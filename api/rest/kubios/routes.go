package kubios

import (
	"github.com/diabalance/server/diabalance/entries"
	"github.com/diabalance/server/diabalance/hrv"
	"github.com/diabalance/server/internal/auth"
	"github.com/gin-gonic/gin"
)

// registers all Kubios proxy routes
func RegisterRoutes(router *gin.RouterGroup, client DataFetcher, tokens TokenSource, entryStore entries.Store, hrvStore hrv.Store) {
	kubiosGroup := router.Group("/kubios", auth.AuthMiddleware())
	{
		kubiosGroup.GET("/user-data", GetUserDataHandler(client, tokens))
		kubiosGroup.GET("/user-data/:date", GetUserDataByDateHandler(client, tokens, entryStore, hrvStore))
		kubiosGroup.GET("/user-info", GetUserInfoHandler(client, tokens))
		kubiosGroup.GET("/me", GetKubiosMeHandler(tokens))
	}
}
