package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-gin-bookshelf/internal/core/auth"
	"go-gin-bookshelf/internal/core/cache"
	"go-gin-bookshelf/internal/repo"
	"go-gin-bookshelf/internal/transport/http/handler"
	mdw "go-gin-bookshelf/internal/transport/http/middleware"
)

func NewAPIEngine(l *zap.Logger, db *gorm.DB, jwter *auth.JWTer, ch *cache.Cache) *gin.Engine {
	r := gin.New()

	// 中间件
	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
		ginzap.RecoveryWithZap(l, true),
		mdw.Metrics(),
		mdw.AccessLog(l),
		cors.Default(),
	)

	// 健康检查 + 指标
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	users := repo.NewUserRepo(db)
	books := repo.NewBookRepo(db)
	authH := handler.NewAuthHandler(users, jwter, l)
	bookH := handler.NewBookHandler(books, ch, l)

	requireAuth := mdw.AuthJWT(jwter)
	api := r.Group("/api")

	ag := api.Group("/auth")
	ag.POST("/register", authH.Register)
	ag.POST("/login", authH.Login)
	ag.POST("/refresh", authH.Refresh)
	ag.POST("/logout", requireAuth, authH.Logout)
	ag.GET("/protected", requireAuth, authH.Protected)

	bg := api.Group("/books")
	bg.GET("", bookH.List)
	bg.GET("/:id", bookH.Get)
	bg.POST("", requireAuth, bookH.Create)
	bg.PUT("/:id", requireAuth, bookH.Update)
	bg.DELETE("/:id", requireAuth, bookH.Delete)

	return r
}
