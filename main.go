package main

import (
	"log"
	"strings"
	"time"

	"artfolio/auth"
	"artfolio/config"
	"artfolio/db"
	"artfolio/handlers"
	"artfolio/mail"
	"artfolio/models"
	"artfolio/storage"
	"artfolio/utils"
	"artfolio/web"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	gormsessions "github.com/gin-contrib/sessions/gorm"
	"github.com/gin-gonic/autotls"
	"github.com/gin-gonic/gin"
)

const (
	sessionCookieName     = "token"
	sessionExpirationTime = 365 * 86400 // 1 year
)

func main() {
	db.Init()
	models.Init()
	storage.Init()
	ensureAdminUser()

	mailClient := mail.NewClient(config.MAIL_API_URL, config.MAIL_API_KEY, config.MAIL_FROM)
	api := handlers.NewAPI(mailClient)

	router := gin.Default()
	_ = router.SetTrustedProxies([]string{})
	if config.DEBUG_MODE {
		router.Use(utils.ErrorLogMiddleware)
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"PUT", "POST", "DELETE"},
		AllowHeaders:     []string{"Origin"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           30 * 24 * time.Hour,
	}))

	// HTML templates
	router.LoadHTMLGlob("templates/*.tmpl")

	cookieStore := gormsessions.NewStore(db.Instance, true, []byte(config.SESSION_KEY))
	cookieStore.Options(sessions.Options{MaxAge: sessionExpirationTime})
	router.Use(sessions.Sessions(sessionCookieName, cookieStore))
	if !config.DEBUG_MODE {
		router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/files/"})))
	}
	router.Use((&utils.CacheRouter{CacheTime: utils.CacheNoCache}).Handler()) // No cache by default, individual end-points can override that

	// Custom Auth Router
	authRouter := &auth.Router{Base: router}
	// Session / account
	router.POST("/user/login", handlers.UserLogin)
	authRouter.POST("/user/logout", handlers.UserLogout)
	authRouter.GET("/user/status", handlers.UserGetStatus)
	authRouter.POST("/user/totp/setup", handlers.UserTotpSetup)
	authRouter.POST("/user/totp/enable", handlers.UserTotpEnable)
	authRouter.POST("/user/profile-image", handlers.ProfileImageUpload)
	authRouter.POST("/user/delete", handlers.UserDelete) // PermissionAdmin or own account check (in handler)
	// Admin
	authRouter.GET("/user/list", handlers.UserList, models.PermissionAdmin)
	authRouter.POST("/user/save", api.UserSave, models.PermissionAdmin)
	authRouter.POST("/user/reinvite", api.UserReInvite, models.PermissionAdmin)
	authRouter.GET("/admin/stats", handlers.AdminGetStats, models.PermissionAdmin)
	authRouter.GET("/admin/usage", handlers.AdminGetUsage, models.PermissionAdmin)
	authRouter.GET("/admin/views", handlers.AdminGetViews, models.PermissionAdmin)
	authRouter.GET("/bucket/list", handlers.BucketList, models.PermissionAdmin)
	authRouter.POST("/bucket/save", handlers.BucketSave, models.PermissionAdmin)
	// Galleries and items
	authRouter.GET("/gallery/list", handlers.GalleryList)
	authRouter.POST("/gallery/create", handlers.GalleryCreate, models.PermissionUpload)
	authRouter.POST("/gallery/save", handlers.GallerySave, models.PermissionUpload)
	authRouter.POST("/gallery/delete", handlers.GalleryDelete, models.PermissionUpload)
	authRouter.GET("/gallery/items", handlers.GalleryItems)
	authRouter.POST("/item/save", handlers.ItemSave, models.PermissionUpload)
	authRouter.POST("/item/delete", handlers.ItemDelete, models.PermissionUpload)
	// Artwork upload
	authRouter.POST("/api/galleries/upload", api.GalleryUpload, models.PermissionUpload)

	/*
	 *	Web interface
	 */
	router.GET("/w/g/:user/:slug/", web.GalleryView)
	router.GET("/w/invite/:token/", web.InviteView)
	router.POST("/w/invite/:token/", web.InviteAccept)
	// Objects in disk buckets without a public base URL
	router.GET("/files/*path", serveFile)
	// Misc
	router.GET("/robots.txt", web.DisallowRobots)

	var err error
	if config.TLS_DOMAINS != "" {
		err = autotls.Run(router, strings.Split(config.TLS_DOMAINS, ",")...)
	} else {
		err = router.Run(config.BIND_ADDRESS)
	}
	log.Fatalf("Server stopped: %v", err)
}

func serveFile(c *gin.Context) {
	s := storage.GetDefaultStorage()
	if s == nil {
		c.Status(404)
		return
	}
	s.Serve(strings.TrimPrefix(c.Param("path"), "/"), c.Request, c.Writer)
}

// ensureAdminUser creates the first account so a fresh install can be
// logged into
func ensureAdminUser() {
	var count int64
	db.Instance.Model(&models.User{}).Count(&count)
	if count > 0 || config.ADMIN_EMAIL == "" || config.ADMIN_PASSWORD == "" {
		return
	}
	user, err := models.UserCreate("Admin", config.ADMIN_EMAIL, config.ADMIN_PASSWORD)
	if err != nil {
		log.Fatalf("Could not create admin user: %v", err)
	}
	for _, permission := range []models.Permission{models.PermissionAdmin, models.PermissionUpload} {
		db.Instance.Create(&models.Grant{UserID: user.ID, Permission: permission})
	}
	log.Printf("Created initial admin user %s", config.ADMIN_EMAIL)
}
