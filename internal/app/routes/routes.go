package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ozgur/courseselect/internal/app/controllers"
	"github.com/ozgur/courseselect/internal/app/models"
	"github.com/ozgur/courseselect/internal/app/models/dto"
	"github.com/ozgur/courseselect/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	courseController *controllers.CourseController,
	selectionController *controllers.SelectionController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public course catalog routes ---
	courses := v1.Group("/courses")
	{
		courses.GET("", courseController.ListCourses)
		courses.GET("/:id", courseController.GetCourseByID)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		// Selection ledger routes, available to every authenticated user
		selections := authenticated.Group("/selections")
		{
			selections.GET("", selectionController.ListSelections)
			selections.GET("/stats", selectionController.GetMyStats)
			selections.GET("/:id", selectionController.GetSelectionByID)
			selections.POST("", selectionController.CreateSelection)
			selections.POST("/:id/confirm", selectionController.ConfirmSelection)
			selections.POST("/:id/cancel", selectionController.CancelSelection)
			selections.DELETE("/:id", selectionController.DeleteSelection)

			// Direct status patches are an administrative operation
			selectionsAdminProtected := selections.Group("")
			selectionsAdminProtected.Use(authMiddleware.RoleRequired(string(models.RoleAdmin)))
			{
				selectionsAdminProtected.PUT("/:id", selectionController.UpdateSelection)
			}
		}

		// Course registry management, admin only
		coursesProtected := authenticated.Group("/courses")
		{
			coursesProtected.GET("/:id/stats", courseController.GetCourseStats)

			coursesAdminProtected := coursesProtected.Group("")
			coursesAdminProtected.Use(authMiddleware.RoleRequired(string(models.RoleAdmin)))
			{
				coursesAdminProtected.POST("", courseController.CreateCourse)
				coursesAdminProtected.PUT("/:id", courseController.UpdateCourse)
				coursesAdminProtected.DELETE("/:id", courseController.DeleteCourse)

				coursesAdminProtected.POST("/batch", courseController.BatchCreateCourses)
				coursesAdminProtected.PUT("/batch", courseController.BatchUpdateCourses)
				coursesAdminProtected.DELETE("/batch", courseController.BatchDeleteCourses)
			}
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data:      gin.H{"status": "ok"},
			Timestamp: time.Now(),
		})
	})

	// Swagger routes are set up in bootstrap.go already
}
