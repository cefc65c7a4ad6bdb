package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/taller-api/internal/application/dto"
	"github.com/jhoicas/taller-api/internal/domain"
	"github.com/jhoicas/taller-api/pkg/logger"
)

func TestWriteError_Mapeo(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validación", domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
		{"usuario antes que genérico", fmt.Errorf("buscar: %w", domain.ErrUserNotFound), fiber.StatusNotFound, "USER_NOT_FOUND"},
		{"no encontrado", domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
		{"duplicado", fmt.Errorf("crear usuario: %w", domain.ErrDuplicate), fiber.StatusConflict, "DUPLICATE"},
		{"entrega", fmt.Errorf("esms: %w", domain.ErrDeliveryFailed), fiber.StatusBadGateway, "DELIVERY_FAILED"},
		{"desconocido", errors.New("se cayó la base"), fiber.StatusInternalServerError, "INTERNAL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return writeError(c, logger.Nop(), tt.err) })

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)
			var body dto.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.code, body.Code)
		})
	}
}

func TestWriteError_EntregaOcultaDetalleDelProveedor(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return writeError(c, logger.Nop(), fmt.Errorf("resend: api key xyz: %w", domain.ErrDeliveryFailed))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, domain.ErrDeliveryFailed.Error(), body.Message)
}

func TestErrorMappings_CodigosUnicos(t *testing.T) {
	seen := make(map[string]bool)
	for _, m := range errorMappings {
		assert.False(t, seen[m.code], "código repetido: %s", m.code)
		seen[m.code] = true
	}
}
