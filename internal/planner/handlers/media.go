package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v3"
)

// GetMedia отдаёт загруженное фото комнаты. Имена файлов — uuid, ссылка сама по себе ключ доступа.
func (h *Handler) GetMedia(c fiber.Ctx) error {
	path, err := h.media.RoomPath(c.Params("user"), c.Params("name"))
	if err != nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "file not found"})
	}
	return c.SendFile(path)
}
