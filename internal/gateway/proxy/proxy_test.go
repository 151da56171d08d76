package proxy

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"interior-planner/internal/common/logging"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echo struct {
	Method string `json:"method"`
	Path   string `json:"path"`
	Query  string `json:"query"`
	Auth   string `json:"auth"`
	Body   string `json:"body"`
	File   string `json:"file"`
	Field  string `json:"field"`
}

func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		e := echo{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Auth:   r.Header.Get("Authorization"),
		}
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			require.NoError(t, r.ParseMultipartForm(1<<20))
			f, _, err := r.FormFile("file")
			require.NoError(t, err)
			data, _ := io.ReadAll(f)
			e.File = string(data)
			e.Field = r.FormValue("note")
		} else {
			data, _ := io.ReadAll(r.Body)
			e.Body = string(data)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Upstream", "planner")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(e)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newGateway(upstream string) *fiber.App {
	p := New(5*time.Second, logging.Discard())
	app := fiber.New()
	app.All("/api/v1/planner/*", p.Mount(upstream))
	return app
}

func decodeEcho(t *testing.T, resp *http.Response) echo {
	t.Helper()
	var e echo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
	return e
}

func TestMountForwardsPathQueryAndBody(t *testing.T) {
	up := newUpstream(t)
	app := newGateway(up.URL + "/")

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/planner/sessions/42/items/7?dry=1", strings.NewReader(`{"x":10}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer tok")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, "planner", resp.Header.Get("X-Upstream"))

	e := decodeEcho(t, resp)
	assert.Equal(t, http.MethodPatch, e.Method)
	assert.Equal(t, "/sessions/42/items/7", e.Path)
	assert.Equal(t, "dry=1", e.Query)
	assert.Equal(t, "Bearer tok", e.Auth)
	assert.Equal(t, `{"x":10}`, e.Body)
}

func TestMountForwardsMultipart(t *testing.T) {
	up := newUpstream(t)
	app := newGateway(up.URL)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "room.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("room-bytes"))
	require.NoError(t, err)
	require.NoError(t, w.WriteField("note", "hello"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/planner/sessions/42/room", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	e := decodeEcho(t, resp)
	assert.Equal(t, "/sessions/42/room", e.Path)
	assert.Equal(t, "room-bytes", e.File)
	assert.Equal(t, "hello", e.Field)
}

func TestUpstreamUnreachable(t *testing.T) {
	app := newGateway("http://127.0.0.1:1")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/planner/furniture", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}
