package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/bakery-stock-api/internal/interfaces/http"
	"github.com/jhoicas/bakery-stock-api/pkg/logger"
)

func TestRequestLogger_RegistraEstadoYRuta(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()
	app.Use(apphttp.RequestLogger(logger.NewWriter(&buf, "info")))
	app.Get("/falla", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusBadGateway, "upstream") })
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	for _, path := range []string{"/ok", "/falla"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
		require.NoError(t, err)
		resp.Body.Close()
	}

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var ok, failed map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &ok))
	require.NoError(t, json.Unmarshal(lines[1], &failed))

	assert.Equal(t, "info", ok["level"])
	assert.Equal(t, "/ok", ok["path"])
	assert.EqualValues(t, fiber.StatusNoContent, ok["status"])

	assert.Equal(t, "error", failed["level"])
	assert.EqualValues(t, fiber.StatusBadGateway, failed["status"])
}
