package v1

import (
	"roadmapper/internal/api/v1/handlers"
	"roadmapper/internal/middleware"
	myws "roadmapper/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

func RegisterRoutes(app *fiber.App) {
	// Publik
	app.Get("/", handlers.Home)
	app.Post("/register", handlers.Register)
	app.Post("/login", handlers.Login)
	app.Post("/forgot", handlers.Forgot)
	app.Post("/reset", handlers.Reset)

	// Semua operasi di bawah ini butuh akun ter-resolve dari token.
	// Path tidak punya prefix bersama, jadi gate dipasang per route.
	app.Get("/logout", middleware.UseToken, handlers.Logout)
	app.Get("/dashboard", middleware.UseToken, handlers.Dashboard)
	app.Post("/add_category", middleware.UseToken, handlers.AddCategory)
	app.Post("/add_task", middleware.UseToken, handlers.AddTask)
	app.Post("/bulk_import", middleware.UseToken, handlers.BulkImport)
	app.Post("/edit_task/:id", middleware.UseToken, handlers.EditTask)
	app.Post("/mark_done", middleware.UseToken, handlers.MarkDone)
	app.Post("/unset_done", middleware.UseToken, handlers.UnsetDone)
	app.Post("/delete_category/:id", middleware.UseToken, handlers.DeleteCategory)
	app.Post("/delete_task/:id", middleware.UseToken, handlers.DeleteTask)

	// WebSocket: push event perubahan roadmap/task ke dashboard yang
	// sedang terbuka. Token lewat query ?token= karena browser tidak
	// bisa set header Authorization saat upgrade.
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", middleware.UseToken, websocket.New(func(conn *websocket.Conn) {
		client := &myws.Client{UserID: conn.Locals("userID").(int), Conn: conn}
		myws.Default.Register <- client
		defer func() {
			myws.Default.Unregister <- client
		}()
		// Client tidak mengirim apa-apa; loop baca hanya untuk
		// mendeteksi koneksi putus
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}))
}
