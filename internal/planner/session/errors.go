package session

import (
	"errors"
	"fmt"
)

var (
	ErrSessionDisposed     = errors.New("session disposed")
	ErrNotReady            = errors.New("session is not ready")
	ErrRoomImageRequired   = errors.New("room image required")
	ErrCatalogItemNotFound = errors.New("catalog item not found")
	ErrImageRequired       = errors.New("image data required")
	ErrProjectForbidden    = errors.New("project belongs to another user")
)

// CatalogUnavailableError — каталог не загрузился, сессия не может стартовать.
type CatalogUnavailableError struct {
	Err error
}

func (e *CatalogUnavailableError) Error() string {
	return fmt.Sprintf("cannot start session: catalog unavailable: %v", e.Err)
}

func (e *CatalogUnavailableError) Unwrap() error { return e.Err }

// ProjectLoadFailedError — прежний дизайн не восстановлен, холст пуст.
type ProjectLoadFailedError struct {
	ProjectID string
	Err       error
}

func (e *ProjectLoadFailedError) Error() string {
	return fmt.Sprintf("project %s could not be recovered: %v", e.ProjectID, e.Err)
}

func (e *ProjectLoadFailedError) Unwrap() error { return e.Err }

// SaveFailedError — сохранение не удалось, сессия остаётся редактируемой.
type SaveFailedError struct {
	Err error
}

func (e *SaveFailedError) Error() string {
	return fmt.Sprintf("save failed: %v", e.Err)
}

func (e *SaveFailedError) Unwrap() error { return e.Err }
