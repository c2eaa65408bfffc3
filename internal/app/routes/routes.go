package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tolgad/registra/internal/app/controllers"
	"github.com/tolgad/registra/internal/app/models"
	"github.com/tolgad/registra/internal/app/models/dto"
	"github.com/tolgad/registra/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	termController *controllers.TermController,
	departmentController *controllers.DepartmentController,
	courseController *controllers.CourseController,
	enrollmentController *controllers.EnrollmentController,
	gradeController *controllers.GradeController,
	authMiddleware *middleware.AuthMiddleware,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.NewAPIResponse(gin.H{"status": "ok"}, ""))
	})

	v1 := router.Group("/api/v1")

	// --- Public auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/auth/logout", authController.Logout)
		authenticated.GET("/auth/me", authController.GetMe)

		// Registration is admin-driven; there is no public signup
		adminAuth := authenticated.Group("/auth")
		adminAuth.Use(authMiddleware.RoleRequired(models.RoleAdmin))
		{
			adminAuth.POST("/register", authController.Register)
		}

		// Terms: readable by everyone, writable by admins
		terms := authenticated.Group("/terms")
		{
			terms.GET("", termController.GetAllTerms)
			terms.GET("/:id", termController.GetTermByID)

			termsAdmin := terms.Group("")
			termsAdmin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
			{
				termsAdmin.POST("", termController.CreateTerm)
				termsAdmin.PUT("/:id", termController.UpdateTerm)
				termsAdmin.DELETE("/:id", termController.DeleteTerm)
			}
		}

		// Departments: readable by everyone, writable by admins
		departments := authenticated.Group("/departments")
		{
			departments.GET("", departmentController.GetAllDepartments)
			departments.GET("/:id", departmentController.GetDepartmentByID)

			departmentsAdmin := departments.Group("")
			departmentsAdmin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
			{
				departmentsAdmin.POST("", departmentController.CreateDepartment)
				departmentsAdmin.PUT("/:id", departmentController.UpdateDepartment)
				departmentsAdmin.DELETE("/:id", departmentController.DeleteDepartment)
			}
		}

		// Courses: browsing is open to all authenticated users, catalog
		// management is admin-only
		courses := authenticated.Group("/courses")
		{
			courses.GET("", courseController.ListCourses)
			courses.GET("/:id", courseController.GetCourseByID)

			coursesAdmin := courses.Group("")
			coursesAdmin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
			{
				coursesAdmin.POST("", courseController.CreateCourse)
				coursesAdmin.PUT("/:id", courseController.UpdateCourse)
				coursesAdmin.DELETE("/:id", courseController.DeleteCourse)
			}
		}

		// Enrollments: the student self-service path
		enrollments := authenticated.Group("/enrollments")
		enrollments.Use(authMiddleware.RoleRequired(models.RoleStudent))
		{
			enrollments.POST("", enrollmentController.Enroll)
			enrollments.GET("", enrollmentController.ListMyEnrollments)
			enrollments.GET("/:id", enrollmentController.GetEnrollment)
			enrollments.DELETE("/:id", enrollmentController.Drop)
		}

		termRegistrations := authenticated.Group("/term-registrations")
		termRegistrations.Use(authMiddleware.RoleRequired(models.RoleStudent))
		{
			termRegistrations.POST("", enrollmentController.RegisterForTerm)
			termRegistrations.GET("", enrollmentController.ListMyTermRegistrations)
		}

		// Administrative enrollment override
		adminEnrollments := authenticated.Group("/admin/enrollments")
		adminEnrollments.Use(authMiddleware.RoleRequired(models.RoleAdmin))
		{
			adminEnrollments.POST("", enrollmentController.AdminEnroll)
		}

		// Grades: professors and admins record, everyone involved can read
		grades := authenticated.Group("/grades")
		{
			grades.GET("/:enrollmentId", gradeController.GetGrade)

			gradesStaff := grades.Group("")
			gradesStaff.Use(authMiddleware.RoleRequired(models.RoleProfessor, models.RoleAdmin))
			{
				gradesStaff.POST("", gradeController.RecordGrade)
			}
		}
	}
}
