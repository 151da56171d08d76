package handlers

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"

	"interior-planner/internal/common/middleware"
)

// Register подключает маршруты планировщика. auth — проверка Bearer-токена.
func Register(app fiber.Router, h *Handler, auth fiber.Handler) {
	// ============================================================
	// Public Routes
	// ============================================================

	app.Get("/furniture", h.ListFurniture)
	app.Get("/media/:user/:name", h.GetMedia)
	app.Get("/metrics", adaptor.HTTPHandler(h.metrics.Handler()))

	// ============================================================
	// Catalog Admin Routes
	// ============================================================

	admin := app.Group("/admin", auth, middleware.AdminOnly())
	admin.Post("/furniture", h.AddFurniture)
	admin.Put("/furniture/:id", h.UpdateFurniture)
	admin.Delete("/furniture/:id", h.DeleteFurniture)
	admin.Get("/projects", h.AdminListProjects)

	// ============================================================
	// Project Routes
	// ============================================================

	projects := app.Group("/projects", auth)
	projects.Get("/", h.ListProjects)
	projects.Get("/:id", h.GetProject)
	projects.Delete("/:id", h.DeleteProject)

	// ============================================================
	// Editing Session Routes
	// ============================================================

	sessions := app.Group("/sessions", auth)
	sessions.Post("/", h.OpenSession)
	sessions.Get("/:sid", h.GetSession)
	sessions.Delete("/:sid", h.CloseSession)
	sessions.Put("/:sid/title", h.SetTitle)
	sessions.Put("/:sid/room", h.SetRoom)
	sessions.Post("/:sid/room", h.UploadRoom)
	sessions.Post("/:sid/items", h.AddItem)
	sessions.Post("/:sid/items/custom", h.AddCustomItem)
	sessions.Patch("/:sid/items/:pid", h.UpdateItem)
	sessions.Post("/:sid/items/:pid/move", h.MoveItem)
	sessions.Post("/:sid/items/:pid/resize", h.ResizeItem)
	sessions.Post("/:sid/items/:pid/rotate", h.RotateItem)
	sessions.Post("/:sid/items/:pid/select", h.SelectItem)
	sessions.Delete("/:sid/items/:pid", h.RemoveItem)
	sessions.Post("/:sid/save", h.Save)
}
