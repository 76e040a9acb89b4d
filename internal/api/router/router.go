package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"toolbox-track/config"
	"toolbox-track/internal/api/handler"
	"toolbox-track/internal/api/middleware"
	"toolbox-track/pkg/jwt"
	"toolbox-track/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证；登录/刷新挂速率限制防爆破）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/refresh", middleware.RateLimit(rdb, 30, time.Minute), h.Auth.RefreshToken)
		}

		// 需要认证的路由（租户边界由 JWT 注入）
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb, logger))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 员工模块（只读）
			employees := authorized.Group("/employees")
			{
				employees.GET("", h.Employee.List)
				employees.GET("/:id", h.Employee.Get)
			}

			// 课程模块
			courses := authorized.Group("/courses")
			{
				courses.GET("", h.Course.List)
				courses.GET("/:id", h.Course.Get)
				courses.POST("", middleware.RoleAuth("admin"), h.Course.Create)
				courses.PUT("/:id", middleware.RoleAuth("admin"), h.Course.Update)
			}

			// 课程分配模块
			assignments := authorized.Group("/assignments")
			{
				assignments.GET("", h.Assignment.List)
				assignments.GET("/:id", h.Assignment.Get)
				assignments.GET("/:id/instances", h.Assignment.ListInstances)
				assignments.POST("", middleware.RoleAuth("admin"), h.Assignment.Create)
				assignments.DELETE("/:id", middleware.RoleAuth("admin"), h.Assignment.Deactivate)
			}

			// 培训实例模块（完成登记鉴权在 Service 层：本人或监督者）
			instances := authorized.Group("/instances")
			{
				instances.GET("/:id", h.Instance.Get)
				instances.POST("/:id/complete", h.Instance.Complete)
			}

			// 逾期扫描（外部调度器触发）
			authorized.POST("/compliance/sweep", middleware.RoleAuth("admin"), h.Report.Sweep)

			// 监督关系模块
			supervisors := authorized.Group("/supervisors")
			{
				supervisors.GET("", h.Supervisor.List)
				supervisors.POST("", middleware.RoleAuth("admin"), h.Supervisor.Assign)
				supervisors.DELETE("/:id", middleware.RoleAuth("admin"), h.Supervisor.Unassign)
			}

			// 查找值模块
			lookups := authorized.Group("/lookups")
			{
				lookups.GET("", h.Lookup.ListCategories)
				lookups.GET("/:category/values", h.Lookup.EffectiveValues)
				lookups.POST("/:category/values", middleware.RoleAuth("admin"), h.Lookup.CreateValue)
				lookups.PUT("/values/:id/toggle", middleware.RoleAuth("admin"), h.Lookup.ToggleValue)
			}

			// 合规报表模块
			reports := authorized.Group("/reports")
			{
				reports.GET("/compliance", h.Report.Compliance)
				reports.GET("/overdue", h.Report.Overdue)
				reports.GET("/completions", h.Report.Completions)
				reports.GET("/skills-matrix", h.Report.SkillsMatrix)
			}

			// 导出模块
			exports := authorized.Group("/exports")
			{
				exports.GET("/skills-matrix.xlsx", middleware.RoleAuth("admin"), h.Export.SkillsMatrixXLSX)
				exports.GET("/upcoming.ics", h.Export.UpcomingICS)
			}

			// 租户配置模块
			settings := authorized.Group("/settings")
			{
				settings.GET("", h.Setting.List)
				settings.GET("/:key", h.Setting.Get)
				settings.PUT("/:key", middleware.RoleAuth("admin"), h.Setting.Put)
			}
		}
	}

	return r
}
