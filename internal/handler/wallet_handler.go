package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/overbid-backend/internal/model"
	"github.com/shinyyama/overbid-backend/internal/service"
)

type WalletHandler struct {
	svc service.WalletService
}

func NewWalletHandler(svc service.WalletService) *WalletHandler {
	return &WalletHandler{svc: svc}
}

type WalletResponse struct {
	Address string `json:"address"`
	Balance uint64 `json:"balance"`
}

type AirdropRequest struct {
	Amount uint64 `json:"amount"`
}

func toWalletResponse(w *model.Wallet) WalletResponse {
	return WalletResponse{Address: w.Address, Balance: w.Balance}
}

func (h *WalletHandler) Get(c echo.Context) error {
	w, err := h.svc.Get(c.Request().Context(), c.Param("address"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toWalletResponse(w))
}

func (h *WalletHandler) Airdrop(c echo.Context) error {
	var req AirdropRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	w, err := h.svc.Airdrop(c.Request().Context(), c.Param("address"), req.Amount)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toWalletResponse(w))
}
