package storage

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
	files := r.Group("/files")
	files.Use(middleware.AuthMiddleware())
	files.Use(middleware.ExtractUserID())
	{
		files.POST("", middleware.RBACAuthorize(rbacService, "file", "create"), handler.Upload)
		files.GET("/:id", middleware.RBACAuthorize(rbacService, "file", "read"), handler.GetById)
		files.DELETE("/:id", middleware.RBACAuthorize(rbacService, "file", "delete"), handler.Delete)
	}
}
