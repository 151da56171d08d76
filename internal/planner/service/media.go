package service

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrUnsupportedMedia = errors.New("unsupported image type")

var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".gif":  true,
}

// ============================================================
// Media Storage
// ============================================================

// MediaStorage хранит загруженные фотографии комнат: <root>/<userID>/rooms/<uuid>.<ext>.
// Наружу отдаётся только непрозрачная ссылка /media/<userID>/<file>.
type MediaStorage struct {
	root string
}

func NewMediaStorage(root string) *MediaStorage {
	return &MediaStorage{root: root}
}

func (s *MediaStorage) RoomsDir(userID string) string {
	return filepath.Join(s.root, cleanSegment(userID), "rooms")
}

func (s *MediaStorage) EnsureRoomsDir(userID string) error {
	if err := os.MkdirAll(s.RoomsDir(userID), 0o755); err != nil {
		return fmt.Errorf("mkdir rooms dir: %w", err)
	}
	return nil
}

// SaveRoom сохраняет фото комнаты и возвращает ссылку на него.
func (s *MediaStorage) SaveRoom(userID, filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !imageExts[ext] {
		return "", ErrUnsupportedMedia
	}
	if err := s.EnsureRoomsDir(userID); err != nil {
		return "", err
	}

	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(s.RoomsDir(userID), name), data, 0o644); err != nil {
		return "", fmt.Errorf("write room image: %w", err)
	}
	return "/media/" + cleanSegment(userID) + "/" + name, nil
}

func cleanSegment(v string) string {
	v = filepath.Base(v)
	if v == "." || v == ".." || v == string(filepath.Separator) {
		return "_"
	}
	return v
}

// RoomPath возвращает путь к файлу; имя очищается от каталогов.
func (s *MediaStorage) RoomPath(userID, name string) (string, error) {
	path := filepath.Join(s.RoomsDir(userID), cleanSegment(name))
	if _, err := os.Stat(path); err != nil {
		return "", err
	}
	return path, nil
}
