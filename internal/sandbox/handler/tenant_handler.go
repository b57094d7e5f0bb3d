package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/paquexpress/client-go/internal/sandbox/service"
)

type TenantHandler struct {
	tenants *service.Tenants
}

func NewTenantHandler(tenants *service.Tenants) *TenantHandler {
	return &TenantHandler{tenants: tenants}
}

type profileResponse struct {
	Role     string    `json:"role"`
	TenantID string    `json:"tenant_id"`
	JoinedAt time.Time `json:"joined_at"`
}

// List returns the empresas the account belongs to.
//
// @Summary      List empresas
// @Tags         empresas
// @Produce      json
// @Success      200  {array}  domain.Tenant
// @Router       /api/empresas [get]
func (h *TenantHandler) List(c echo.Context) error {
	accountID, err := ctxAccountID(c)
	if err != nil {
		return err
	}

	tenants, err := h.tenants.List(c.Request().Context(), accountID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tenants)
}

// Profile returns the account's role within one empresa.
//
// @Summary      Empresa profile
// @Tags         empresas
// @Produce      json
// @Param        slug  path      string  true  "Empresa slug"
// @Success      200   {object}  profileResponse
// @Failure      404   {object}  map[string]string
// @Router       /api/empresas/{slug}/perfil [get]
func (h *TenantHandler) Profile(c echo.Context) error {
	accountID, err := ctxAccountID(c)
	if err != nil {
		return err
	}

	membership, err := h.tenants.Profile(c.Request().Context(), accountID, c.Param("slug"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profileResponse{
		Role:     string(membership.Role),
		TenantID: membership.TenantID,
		JoinedAt: membership.JoinedAt,
	})
}
