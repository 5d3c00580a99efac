package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/overbid-backend/internal/service"
)

type AuctionHandler struct {
	svc service.AuctionService
}

func NewAuctionHandler(svc service.AuctionService) *AuctionHandler {
	return &AuctionHandler{svc: svc}
}

type BidRequest struct {
	Holder string `json:"holder"`
	Amount uint64 `json:"amount"`
}

type BidReceiptResponse struct {
	Bid            BidResponse `json:"bid"`
	MinimumNextBid uint64      `json:"minimumNextBid"`
}

// Bid lets the signer challenge the current holder of :address.
func (h *AuctionHandler) Bid(c echo.Context) error {
	signer, _ := c.Get("signer").(string)
	if signer == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing signer"))
	}
	var req BidRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	r, err := h.svc.Bid(c.Request().Context(), service.BidParams{
		Asset:  c.Param("address"),
		Payer:  signer,
		Holder: req.Holder,
		Amount: req.Amount,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, BidReceiptResponse{Bid: toBidResponse(r.Bid), MinimumNextBid: r.MinimumNextBid})
}
