// Package api contains all endpoints available
package api

import (
	"time"

	"accounthub/user-api/middleware"
	"accounthub/user-api/security"
	"accounthub/user-api/storage"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

var store = persist.NewMemoryStore(time.Minute)

type API struct {
	DB      *gorm.DB
	Router  *gin.Engine
	Argon   *security.ArgonHash
	Avatars storage.BlobStore
}

// NewRouter wires the HTTP surface around an already-opened database
// handle and an already-verified blob store. Both are constructed in
// main before any traffic is accepted
func NewRouter(db *gorm.DB, avatars storage.BlobStore) (*API, error) {
	a := &API{
		DB:      db,
		Argon:   security.NewArgon(),
		Avatars: avatars,
	}

	makeLogger()

	router := gin.New()
	a.Router = router

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:5173"},
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true
	a.Router.MaxMultipartMemory = 5 << 20

	auth := middleware.NewAuthMiddleware(db)
	maxUploadSize := viper.GetInt64("upload.max_size")

	main := router.Group("/api")
	{
		// HEAD /api/heartbeat 		-> Used to check if the server is alive
		main.HEAD("/heartbeat", a.Heartbeat)

		// HEAD /api/validate		-> Validates a session token
		main.HEAD("/validate", auth, a.Validate)
	}

	user := main.Group("/user")
	{
		// POST /api/user 		-> Registers a new user and opens a session
		user.POST("", middleware.BodySizeLimiter(1<<20), a.UserRegister)

		// POST /api/user/login 	-> Logs in a user and returns a session token
		user.POST("/login", middleware.BodySizeLimiter(1<<20), a.UserLogin)

		// PATCH /api/user/avatar	-> Replaces the user's avatar image
		user.PATCH("/avatar", auth, middleware.BodySizeLimiter(maxUploadSize), a.AvatarUpload)

		// GET /api/user/avatar		-> Streams the user's avatar image back
		user.GET("/avatar", auth, a.AvatarServe)

		// GET /api/user/:id		-> Returns another user's profile
		user.GET("/:id", auth, cacheFor(10), a.UserFetch)

		// POST /api/user/logout	-> Ends the session the request came in with
		user.POST("/logout", auth, a.UserLogout)

		// POST /api/user/logoutAll	-> Ends every session of the user
		user.POST("/logoutAll", auth, a.UserLogoutAll)
	}

	users := main.Group("/users", middleware.BodySizeLimiter(1<<20))
	{
		// GET /api/users/me		-> Returns the calling user's own profile
		users.GET("/me", auth, a.UserMe)

		// PATCH /api/users/me		-> Updates profile fields from the allow-list
		users.PATCH("/me", auth, a.UserUpdate)
	}

	return a, nil
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	if lvl, err := zapcore.ParseLevel(viper.GetString("app.log_level")); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}

func cacheFor(sec int) gin.HandlerFunc {
	return cache.CacheByRequestURI(store, time.Second*time.Duration(sec))
}
