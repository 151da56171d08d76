package handlers

import (
	"errors"
	"net/http"
	"strings"

	"interior-planner/internal/planner/models"
	"interior-planner/internal/planner/repository"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Catalog Handlers
// ============================================================

// ListFurniture отдаёт каталог, новые элементы первыми.
func (h *Handler) ListFurniture(c fiber.Ctx) error {
	ctx, cancel := h.context()
	defer cancel()

	items, err := h.store.ListFurniture(ctx)
	if err != nil {
		h.logger.Error("list furniture", "err", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
	}
	return c.JSON(items)
}

type furnitureRequest struct {
	Name       string            `json:"name"`
	Category   string            `json:"category"`
	ImageURL   string            `json:"imageUrl"`
	ModelURL   string            `json:"modelUrl"`
	Dimensions models.Dimensions `json:"dimensions"`
}

func (r furnitureRequest) validate() string {
	switch {
	case strings.TrimSpace(r.Name) == "":
		return "name required"
	case strings.TrimSpace(r.Category) == "":
		return "category required"
	case r.ImageURL == "" && r.ModelURL == "":
		return "imageUrl or modelUrl required"
	}
	return ""
}

func (r furnitureRequest) apply(f *models.Furniture) {
	f.Name = strings.TrimSpace(r.Name)
	f.Category = strings.TrimSpace(r.Category)
	f.ImageURL = r.ImageURL
	f.ModelURL = r.ModelURL
	f.Dimensions = r.Dimensions
}

func (h *Handler) AddFurniture(c fiber.Ctx) error {
	var req furnitureRequest
	if err := decode(c, &req); err != nil {
		return badRequest(c, err)
	}
	if msg := req.validate(); msg != "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	ctx, cancel := h.context()
	defer cancel()

	var f models.Furniture
	req.apply(&f)
	if err := h.store.CreateFurniture(ctx, &f); err != nil {
		h.logger.Error("add furniture", "err", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
	}
	return c.Status(http.StatusCreated).JSON(f)
}

func (h *Handler) UpdateFurniture(c fiber.Ctx) error {
	var req furnitureRequest
	if err := decode(c, &req); err != nil {
		return badRequest(c, err)
	}
	if msg := req.validate(); msg != "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	ctx, cancel := h.context()
	defer cancel()

	f, err := h.store.GetFurniture(ctx, c.Params("id"))
	if errors.Is(err, repository.ErrNotFound) {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "furniture not found"})
	}
	if err != nil {
		h.logger.Error("get furniture", "err", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
	}

	req.apply(f)
	if err := h.store.UpdateFurniture(ctx, f); err != nil {
		h.logger.Error("update furniture", "err", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
	}
	return c.JSON(f)
}

// DeleteFurniture не трогает уже размещённые элементы: категория в них — снимок.
func (h *Handler) DeleteFurniture(c fiber.Ctx) error {
	ctx, cancel := h.context()
	defer cancel()

	err := h.store.DeleteFurniture(ctx, c.Params("id"))
	if errors.Is(err, repository.ErrNotFound) {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "furniture not found"})
	}
	if err != nil {
		h.logger.Error("delete furniture", "err", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
	}
	return c.JSON(fiber.Map{"message": "furniture removed"})
}
