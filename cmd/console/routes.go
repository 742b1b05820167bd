package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/noah-isme/student-admin-console/internal/handler"
	"github.com/noah-isme/student-admin-console/pkg/config"
)

type routeHandlers struct {
	students    *handler.StudentHandler
	courses     *handler.CourseHandler
	enrollments *handler.EnrollmentHandler
	dashboard   *handler.DashboardHandler
	home        *handler.HomeHandler
	exports     *handler.ExportHandler
	metrics     *handler.MetricsHandler
}

func registerRoutes(r *gin.Engine, cfg *config.Config, h routeHandlers) {
	r.GET("/health", h.metrics.Health)
	r.GET("/ready", h.metrics.Ready)
	r.GET("/metrics", h.metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	students := api.Group("/students")
	students.GET("", h.students.List)
	students.GET("/search", h.students.Search)
	students.GET("/stream", h.students.Stream)
	students.GET("/:id", h.students.Get)
	students.POST("", h.students.Create)
	students.PUT("/:id", h.students.Update)
	students.DELETE("/:id", h.students.Delete)
	students.POST("/:id/courses", h.students.AddCourses)

	courses := api.Group("/courses")
	courses.GET("", h.courses.List)
	courses.GET("/active", h.courses.Active)
	courses.GET("/search", h.courses.Search)
	courses.GET("/stream", h.courses.Stream)
	courses.GET("/calendar.ics", h.exports.Calendar)
	courses.GET("/:id", h.courses.Get)
	courses.POST("", h.courses.Create)
	courses.PUT("/:id", h.courses.Update)
	courses.DELETE("/:id", h.courses.Delete)
	courses.POST("/:id/students", h.courses.AddStudents)

	enrollments := api.Group("/enrollments")
	enrollments.GET("", h.enrollments.List)
	enrollments.GET("/student/:id", h.enrollments.ByStudent)
	enrollments.GET("/course/:id", h.enrollments.ByCourse)
	enrollments.POST("", h.enrollments.Enroll)
	enrollments.DELETE("/:studentId/:courseId", h.enrollments.Unenroll)

	api.GET("/dashboard", h.dashboard.Summary)
	api.GET("/exports/:dataset", h.exports.Export)

	home := api.Group("/home")
	home.GET("/hello", h.home.Hello)
	home.GET("/health", h.home.Health)
	home.GET("/version", h.home.Version)
	home.GET("/metrics", h.home.Metrics)
	home.DELETE("/snapshots", h.home.ClearSnapshots)
}
