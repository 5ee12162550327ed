package balance

import (
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	balances := r.Group("/balances")
	balances.Use(middleware.AuthMiddleware())
	balances.Use(middleware.ExtractUserID())
	{
		// stats before :id so the literal segment wins
		balances.GET("/stats", handler.Stats)
		balances.GET("", middleware.RBACAuthorize(rbacService, "balance", "read"), handler.GetAll)
		balances.GET("/:id", middleware.RBACAuthorize(rbacService, "balance", "read"), handler.GetById)
		balances.POST("", middleware.RBACAuthorize(rbacService, "balance", "create"), handler.Grant)
	}
}
