package proxy

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v3"
)

// hop-by-hop заголовки не копируются в ответ.
var skipResponseHeaders = map[string]bool{
	"Connection":        true,
	"Keep-Alive":        true,
	"Transfer-Encoding": true,
	"Content-Length":    true,
}

// ============================================================
// Proxy
// ============================================================

// Proxy пересылает запросы gateway во внутренние сервисы.
type Proxy struct {
	client *http.Client
	logger *log.Logger
}

func New(timeout time.Duration, logger *log.Logger) *Proxy {
	return &Proxy{
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Mount пересылает всё под prefix в upstream, сохраняя хвост пути и query.
// GET /api/v1/planner/sessions/42?x=1 -> {upstream}/sessions/42?x=1
func (p *Proxy) Mount(upstream string) fiber.Handler {
	upstream = strings.TrimRight(upstream, "/")
	return func(c fiber.Ctx) error {
		target := upstream + "/" + c.Params("*")
		if qs := string(c.Request().URI().QueryString()); qs != "" {
			target += "?" + qs
		}
		return p.Forward(c, target)
	}
}

// Forward проксирует любой метод с учетом multipart/raw.
func (p *Proxy) Forward(c fiber.Ctx, targetURL string) error {
	p.logger.Debug("forward", "method", c.Method(), "path", c.Path(), "target", targetURL, "bytes", len(c.Body()))

	contentType := c.Get("Content-Type")
	var (
		req *http.Request
		err error
	)
	if strings.HasPrefix(contentType, "multipart/form-data") {
		req, err = p.multipartRequest(c, targetURL)
	} else {
		req, err = http.NewRequest(c.Method(), targetURL, bytes.NewReader(c.Body()))
		if err == nil && contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
	}
	if err != nil {
		p.logger.Warn("build request", "target", targetURL, "err", err)
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	if auth := c.Get("Authorization"); auth != "" {
		req.Header.Set("Authorization", auth)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Error("upstream unreachable", "target", targetURL, "err", err)
		return c.Status(http.StatusBadGateway).JSON(fiber.Map{"error": "failed to reach upstream service"})
	}
	defer resp.Body.Close()

	return p.copyResponse(c, resp)
}

// multipartRequest пересобирает форму: тело fiber уже разобрано.
func (p *Proxy) multipartRequest(c fiber.Ctx, targetURL string) (*http.Request, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fmt.Errorf("parse multipart: %w", err)
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for key, files := range form.File {
		for _, fileHeader := range files {
			if err := copyFilePart(writer, key, fileHeader); err != nil {
				return nil, err
			}
		}
	}
	for key, values := range form.Value {
		for _, value := range values {
			if err := writer.WriteField(key, value); err != nil {
				return nil, err
			}
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequest(c.Method(), targetURL, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req, nil
}

func copyFilePart(writer *multipart.Writer, key string, fileHeader *multipart.FileHeader) error {
	file, err := fileHeader.Open()
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, key, fileHeader.Filename))
	h.Set("Content-Type", fileHeader.Header.Get("Content-Type"))

	part, err := writer.CreatePart(h)
	if err != nil {
		return fmt.Errorf("create part: %w", err)
	}
	_, err = io.Copy(part, file)
	return err
}

func (p *Proxy) copyResponse(c fiber.Ctx, resp *http.Response) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		p.logger.Error("read upstream response", "err", err)
		return c.Status(http.StatusBadGateway).JSON(fiber.Map{"error": "invalid upstream response"})
	}

	for key, values := range resp.Header {
		if len(values) > 0 && !skipResponseHeaders[key] {
			c.Set(key, values[0])
		}
	}

	c.Status(resp.StatusCode)
	return c.Send(data)
}
