package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"golang.org/x/time/rate"

	"github.com/mdrsisme/lisan-sign/controllers"
	"github.com/mdrsisme/lisan-sign/middleware"
	"github.com/mdrsisme/lisan-sign/utils"
)

func SetupRouter() *fiber.App {
	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PATCH, DELETE, OPTIONS",
	}))

	// authLimiter: 1 req/sec, burst 5. Also covers the OTP endpoints, which
	// caps brute forcing of the 6-digit space.
	authLimiter := middleware.RateLimit(rate.Limit(1), 5)

	api := app.Group("/api")

	// Public auth routes
	auth := api.Group("/auth")

	auth.Post("/register", authLimiter, controllers.Register)
	auth.Post("/login", authLimiter, controllers.Login)
	auth.Post("/verify", authLimiter, controllers.Verify)
	auth.Post("/send-code", authLimiter, controllers.SendCode)

	// User routes; the list and stats views are admin-only
	users := api.Group("/users")

	users.Get("/", middleware.AuthRequired(), middleware.AdminRequired(), controllers.ListUsers)
	users.Get("/stats", middleware.AuthRequired(), middleware.AdminRequired(), controllers.UserStats)
	users.Get("/profile", middleware.AuthRequired(), controllers.GetProfile)
	users.Patch("/profile", middleware.AuthRequired(), controllers.UpdateProfile)
	users.Delete("/profile", middleware.AuthRequired(), controllers.DeleteAccount)

	// Announcements CMS; /stats before /:id so it is not swallowed
	announcements := api.Group("/announcements")

	announcements.Get("/", controllers.ListAnnouncements)
	announcements.Post("/", controllers.CreateAnnouncement)
	announcements.Get("/stats", controllers.AnnouncementStats)
	announcements.Get("/:id", controllers.GetAnnouncement)
	announcements.Patch("/:id", controllers.UpdateAnnouncement)
	announcements.Delete("/:id", controllers.DeleteAnnouncement)

	api.Get("/leaderboard", controllers.Leaderboard)

	app.Get("/health", func(c *fiber.Ctx) error {
		return utils.Success(c, "LISAN API is running", nil)
	})

	return app
}
