package entries

import (
	"github.com/diabalance/server/diabalance/entries"
	"github.com/diabalance/server/diabalance/hrv"
	"github.com/diabalance/server/internal/auth"
	"github.com/gin-gonic/gin"
)

// registers all diary entry routes
func RegisterRoutes(router *gin.RouterGroup, entryStore entries.Store, hrvStore hrv.Store) {
	entriesGroup := router.Group("/entries", auth.AuthMiddleware())
	{
		entriesGroup.POST("", CreateEntryHandler(entryStore))
		entriesGroup.PUT("", UpdateEntryHandler(entryStore))
		entriesGroup.DELETE("/:date", DeleteEntryHandler(entryStore))
		entriesGroup.GET("", ListMonthHandler(entryStore, hrvStore))
	}
}
