package handlers

import (
	"encoding/base64"
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"interior-planner/internal/planner/layout"
	"interior-planner/internal/planner/metrics"
	"interior-planner/internal/planner/repository"
	"interior-planner/internal/planner/service"
	"interior-planner/internal/planner/session"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Session Lifecycle
// ============================================================

type openSessionRequest struct {
	ProjectID string `json:"projectId"`
}

type sessionResponse struct {
	SessionID string       `json:"sessionId"`
	Session   session.View `json:"session"`
}

// OpenSession создаёт сессию и загружает каталог и, если указан, проект.
func (h *Handler) OpenSession(c fiber.Ctx) error {
	var req openSessionRequest
	if len(c.Body()) > 0 {
		if err := decode(c, &req); err != nil {
			return badRequest(c, err)
		}
	}

	ctx, cancel := h.context()
	defer cancel()

	owner := userID(c)
	sess := session.New(h.store, h.store, owner, session.WithAdmin(isAdmin(c)))
	if err := sess.Load(ctx, req.ProjectID); err != nil {
		sess.Dispose()
		if errors.Is(err, session.ErrProjectForbidden) {
			return c.Status(http.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
		}
		h.metrics.Loads.WithLabelValues(metrics.OutcomeFailed).Inc()
		h.logger.Error("open session", "user", owner, "err", err)
		return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{"error": "cannot start session"})
	}

	if warn := sess.Warning(); warn != nil {
		h.metrics.Loads.WithLabelValues(metrics.OutcomeDegraded).Inc()
		h.logger.Warn("project not recovered", "user", owner, "project", req.ProjectID, "err", warn)
	} else {
		h.metrics.Loads.WithLabelValues(metrics.OutcomeOK).Inc()
	}

	token := h.sessions.Open(sess)
	h.metrics.SessionsOpened.Inc()
	h.logger.Info("session opened", "user", owner, "project", req.ProjectID)

	return c.Status(http.StatusCreated).JSON(sessionResponse{
		SessionID: token,
		Session:   sess.View(),
	})
}

func (h *Handler) GetSession(c fiber.Ctx) error {
	sess, err := h.sessions.Resolve(c.Params("sid"), userID(c))
	if err != nil {
		return sessionError(c, err)
	}
	return c.JSON(sess.View())
}

func (h *Handler) CloseSession(c fiber.Ctx) error {
	if err := h.sessions.Close(c.Params("sid"), userID(c)); err != nil {
		return sessionError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// Save сохраняет документ. При ошибке сессия остаётся редактируемой, повтор — вручную.
func (h *Handler) Save(c fiber.Ctx) error {
	sess, err := h.sessions.Resolve(c.Params("sid"), userID(c))
	if err != nil {
		return sessionError(c, err)
	}

	ctx, cancel := h.context()
	defer cancel()

	projectID, err := sess.Save(ctx)
	if err != nil {
		h.metrics.Saves.WithLabelValues(metrics.OutcomeFailed).Inc()
		h.logger.Warn("save failed", "user", sess.OwnerID(), "err", err)
		return saveError(c, err, sess.View())
	}

	h.metrics.Saves.WithLabelValues(metrics.OutcomeOK).Inc()
	return c.JSON(fiber.Map{
		"saved":     true,
		"projectId": projectID,
		"session":   sess.View(),
	})
}

// ============================================================
// Canvas Mutations
// ============================================================

type titleRequest struct {
	Title string `json:"title"`
}

func (h *Handler) SetTitle(c fiber.Ctx) error {
	var req titleRequest
	if err := decode(c, &req); err != nil {
		return badRequest(c, err)
	}
	return h.mutate(c, func(s *session.Session) error {
		return s.SetTitle(strings.TrimSpace(req.Title))
	})
}

type roomRequest struct {
	ImageRef string `json:"imageRef"`
}

// SetRoom принимает готовую ссылку на фото (например, data URL).
func (h *Handler) SetRoom(c fiber.Ctx) error {
	var req roomRequest
	if err := decode(c, &req); err != nil {
		return badRequest(c, err)
	}
	return h.mutate(c, func(s *session.Session) error {
		return s.SetRoomImage(req.ImageRef)
	})
}

// UploadRoom сохраняет фото комнаты в MediaStorage и ставит ссылку на него фоном.
func (h *Handler) UploadRoom(c fiber.Ctx) error {
	sess, err := h.sessions.Resolve(c.Params("sid"), userID(c))
	if err != nil {
		return sessionError(c, err)
	}

	filename, data, err := readUpload(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "file required"})
	}

	ref, err := h.media.SaveRoom(sess.OwnerID(), filename, data)
	if errors.Is(err, service.ErrUnsupportedMedia) {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "only images allowed"})
	}
	if err != nil {
		h.logger.Error("save room image", "err", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save file"})
	}

	if err := sess.SetRoomImage(ref); err != nil {
		return sessionError(c, err)
	}
	return c.JSON(sess.View())
}

type addItemRequest struct {
	CatalogItemID string `json:"catalogItemId"`
}

func (h *Handler) AddItem(c fiber.Ctx) error {
	var req addItemRequest
	if err := decode(c, &req); err != nil {
		return badRequest(c, err)
	}
	return h.mutate(c, func(s *session.Session) error {
		_, err := s.AddFromCatalog(req.CatalogItemID)
		return err
	})
}

type customItemRequest struct {
	Filename  string `json:"filename"`
	ImageData string `json:"imageData"`
}

// AddCustomItem принимает файл (multipart) или готовый data URL (json).
func (h *Handler) AddCustomItem(c fiber.Ctx) error {
	var req customItemRequest
	if strings.HasPrefix(c.Get("Content-Type"), "multipart/form-data") {
		filename, data, err := readUpload(c)
		if err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "file required"})
		}
		req.Filename = filename
		req.ImageData = dataURL(filename, data)
	} else if err := decode(c, &req); err != nil {
		return badRequest(c, err)
	}

	if req.ImageData == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "imageData required"})
	}
	return h.mutate(c, func(s *session.Session) error {
		_, err := s.AddCustom(req.Filename, req.ImageData)
		return err
	})
}

func (h *Handler) UpdateItem(c fiber.Ctx) error {
	var patch layout.Patch
	if err := decode(c, &patch); err != nil {
		return badRequest(c, err)
	}
	return h.mutate(c, func(s *session.Session) error {
		return s.Update(placementID(c), patch)
	})
}

type moveRequest struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

func (h *Handler) MoveItem(c fiber.Ctx) error {
	var req moveRequest
	if err := decode(c, &req); err != nil {
		return badRequest(c, err)
	}
	return h.mutate(c, func(s *session.Session) error {
		return s.Move(placementID(c), req.DX, req.DY)
	})
}

type resizeRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (h *Handler) ResizeItem(c fiber.Ctx) error {
	var req resizeRequest
	if err := decode(c, &req); err != nil {
		return badRequest(c, err)
	}
	return h.mutate(c, func(s *session.Session) error {
		return s.Resize(placementID(c), req.Width, req.Height)
	})
}

type rotateRequest struct {
	Degrees float64 `json:"degrees"`
}

func (h *Handler) RotateItem(c fiber.Ctx) error {
	var req rotateRequest
	if err := decode(c, &req); err != nil {
		return badRequest(c, err)
	}
	return h.mutate(c, func(s *session.Session) error {
		return s.Rotate(placementID(c), req.Degrees)
	})
}

func (h *Handler) SelectItem(c fiber.Ctx) error {
	return h.mutate(c, func(s *session.Session) error {
		return s.Select(placementID(c))
	})
}

func (h *Handler) RemoveItem(c fiber.Ctx) error {
	return h.mutate(c, func(s *session.Session) error {
		return s.Remove(placementID(c))
	})
}

// mutate находит сессию, применяет изменение и отдаёт новое состояние.
func (h *Handler) mutate(c fiber.Ctx, fn func(*session.Session) error) error {
	sess, err := h.sessions.Resolve(c.Params("sid"), userID(c))
	if err != nil {
		return sessionError(c, err)
	}
	if err := fn(sess); err != nil {
		return sessionError(c, err)
	}
	return c.JSON(sess.View())
}

// ============================================================
// Helpers
// ============================================================

func placementID(c fiber.Ctx) layout.SessionID {
	return layout.SessionID(c.Params("pid"))
}

func readUpload(c fiber.Ctx) (string, []byte, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return "", nil, err
	}
	file, err := fileHeader.Open()
	if err != nil {
		return "", nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, err
	}
	return fileHeader.Filename, data, nil
}

func dataURL(filename string, data []byte) string {
	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename)))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func sessionError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	case errors.Is(err, service.ErrSessionForbidden):
		return c.Status(http.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
	case errors.Is(err, session.ErrSessionDisposed):
		return c.Status(http.StatusGone).JSON(fiber.Map{"error": "session closed"})
	case errors.Is(err, session.ErrNotReady):
		return c.Status(http.StatusConflict).JSON(fiber.Map{"error": "session busy"})
	case errors.Is(err, session.ErrCatalogItemNotFound):
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "catalog item not found"})
	case errors.Is(err, session.ErrImageRequired):
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "imageData required"})
	}
	return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "server error"})
}

func saveError(c fiber.Ctx, err error, view session.View) error {
	status, msg := http.StatusBadGateway, "failed to save project"
	switch {
	case errors.Is(err, session.ErrRoomImageRequired):
		status, msg = http.StatusBadRequest, "please upload a room image first"
	case errors.Is(err, repository.ErrForbidden):
		status, msg = http.StatusForbidden, "not authorized"
	case errors.Is(err, repository.ErrNotFound):
		status, msg = http.StatusNotFound, "project not found"
	case errors.Is(err, session.ErrSessionDisposed):
		return c.Status(http.StatusGone).JSON(fiber.Map{"error": "session closed"})
	case errors.Is(err, session.ErrNotReady):
		return c.Status(http.StatusConflict).JSON(fiber.Map{"error": "session busy"})
	}
	return c.Status(status).JSON(fiber.Map{
		"error":   msg,
		"saved":   false,
		"session": view,
	})
}
