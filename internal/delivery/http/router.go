package http

import (
	"CourseMarket/internal/delivery/http/controllers"
	"CourseMarket/internal/delivery/http/controllers/auth"
	"CourseMarket/internal/delivery/http/controllers/course"
	"CourseMarket/internal/delivery/http/controllers/group"
	"CourseMarket/internal/delivery/http/controllers/lesson"
	"CourseMarket/internal/delivery/http/controllers/middleware"
	"CourseMarket/internal/delivery/http/controllers/subscription"
	"CourseMarket/internal/models"
	"CourseMarket/internal/service"
	"CourseMarket/pkg/logger"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func InitRoutes(l logger.Log, u service.Collection, allowOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	config := cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	r.Use(cors.New(config))

	statusController := controllers.NewStatusHandler()
	authMiddleware := middleware.NewAuthMiddlewareProvider(l, u.AuthService)
	authController := auth.NewAuthHandler(l, u.AuthService, u.Ledger)
	queryController := course.NewQueryHandler(l, u.CourseQuery)
	managementController := course.NewManagementHandler(l, u.CourseManage)
	subscriptionController := subscription.NewSubscriptionHandler(l, u.Purchase, u.Registry, u.Access)
	lessonController := lesson.NewLessonHandler(l, u.Lessons, u.Access)
	groupController := group.NewGroupHandler(l, u.Groups)

	authed := authMiddleware.AuthMiddleware
	adminOnly := middleware.RequireRoles(models.AdminRole)

	v1 := r.Group("/v1", middleware.LoggingMiddleware(l))
	{
		v1.GET("/status", statusController.Status)

		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/login", authController.Login)
			authGroup.POST("/register", authController.Register)
			authGroup.POST("/refresh", authController.Refresh)
		}

		me := v1.Group("/me", authed)
		{
			me.GET("", authController.Me)
			me.GET("/balance", authController.Balance)
			me.GET("/subscriptions", subscriptionController.MySubscriptions)
		}

		v1.GET("/subscriptions/:subscription_id", authed, subscriptionController.SubscriptionByID)
		v1.GET("/lessons/:lesson_id", authed, lessonController.LessonByID)

		courses := v1.Group("/courses")
		{
			courses.GET("", queryController.ListCourses)
			courses.GET("/search", queryController.SearchCourses)
			courses.GET("/:course_id", queryController.CourseByID)

			member := courses.Group("", authed)
			{
				member.POST("/:course_id/pay", middleware.RequireRoles(models.ClientRole, models.AdminRole), subscriptionController.Purchase)
				member.GET("/:course_id/lessons", lessonController.LessonsByCourse)
			}

			admin := courses.Group("", authed, adminOnly)
			{
				admin.POST("", managementController.CreateCourse)
				admin.PUT("/:course_id/logo", managementController.UploadCourseLogo)
				admin.POST("/:course_id/lessons", lessonController.CreateLesson)
				admin.GET("/:course_id/groups", groupController.GroupsByCourse)
				admin.POST("/:course_id/groups", groupController.CreateGroup)
			}
		}
	}
	return r
}
