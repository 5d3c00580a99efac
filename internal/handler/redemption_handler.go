package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/overbid-backend/internal/model"
	"github.com/shinyyama/overbid-backend/internal/service"
)

type RedemptionHandler struct {
	svc service.RedemptionService
}

func NewRedemptionHandler(svc service.RedemptionService) *RedemptionHandler {
	return &RedemptionHandler{svc: svc}
}

type RedemptionResponse struct {
	Signature string `json:"signature"`
	Slot      uint64 `json:"slot"`
	Asset     string `json:"asset"`
	Holder    string `json:"holder"`
	Points    uint64 `json:"points"`
	CreatedAt string `json:"createdAt"`
}

type RedemptionListResponse struct {
	Redemptions []RedemptionResponse `json:"redemptions"`
}

func toRedemptionResponse(r *model.Redemption) RedemptionResponse {
	return RedemptionResponse{
		Signature: r.ID,
		Slot:      r.Slot,
		Asset:     r.AssetAddress,
		Holder:    r.Holder,
		Points:    r.Points,
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
	}
}

func (h *RedemptionHandler) Redeem(c echo.Context) error {
	signer, _ := c.Get("signer").(string)
	if signer == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing signer"))
	}
	r, err := h.svc.Redeem(c.Request().Context(), c.Param("address"), signer)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toRedemptionResponse(r))
}

func (h *RedemptionHandler) ListByHolder(c echo.Context) error {
	list, err := h.svc.ListByHolder(c.Request().Context(), c.Param("address"))
	if err != nil {
		return writeError(c, err)
	}
	resp := RedemptionListResponse{Redemptions: make([]RedemptionResponse, 0, len(list))}
	for i := range list {
		resp.Redemptions = append(resp.Redemptions, toRedemptionResponse(&list[i]))
	}
	return c.JSON(http.StatusOK, resp)
}
