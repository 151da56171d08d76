package handlers

import (
	"errors"
	"net/http"

	"interior-planner/internal/planner/repository"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Project Handlers
// ============================================================

func (h *Handler) ListProjects(c fiber.Ctx) error {
	ctx, cancel := h.context()
	defer cancel()

	projects, err := h.store.ListProjects(ctx, userID(c))
	if err != nil {
		h.logger.Error("list projects", "err", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
	}
	return c.JSON(projects)
}

func (h *Handler) AdminListProjects(c fiber.Ctx) error {
	ctx, cancel := h.context()
	defer cancel()

	projects, err := h.store.ListProjects(ctx, "")
	if err != nil {
		h.logger.Error("list all projects", "err", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
	}
	return c.JSON(projects)
}

// GetProject отдаёт документ владельцу или администратору.
func (h *Handler) GetProject(c fiber.Ctx) error {
	ctx, cancel := h.context()
	defer cancel()

	p, err := h.store.LoadProject(ctx, c.Params("id"))
	if errors.Is(err, repository.ErrNotFound) {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "project not found"})
	}
	if err != nil {
		h.logger.Error("load project", "err", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
	}
	if p.OwnerID != userID(c) && !isAdmin(c) {
		return c.Status(http.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
	}
	return c.JSON(p)
}

func (h *Handler) DeleteProject(c fiber.Ctx) error {
	ctx, cancel := h.context()
	defer cancel()

	id := c.Params("id")
	p, err := h.store.LoadProject(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "project not found"})
	}
	if err != nil {
		h.logger.Error("load project", "err", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
	}
	if p.OwnerID != userID(c) && !isAdmin(c) {
		return c.Status(http.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
	}

	if err := h.store.DeleteProject(ctx, id); err != nil && !errors.Is(err, repository.ErrNotFound) {
		h.logger.Error("delete project", "err", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
	}
	return c.JSON(fiber.Map{"message": "project removed"})
}
