package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/overbid-backend/internal/model"
	"github.com/shinyyama/overbid-backend/internal/service"
)

type AssetHandler struct {
	issuance service.IssuanceService
	assets   service.AssetService
}

func NewAssetHandler(issuance service.IssuanceService, assets service.AssetService) *AssetHandler {
	return &AssetHandler{issuance: issuance, assets: assets}
}

type IssueRequest struct {
	URI   string `json:"uri"`
	Asset string `json:"asset"`
}

type TransferRequest struct {
	To string `json:"to"`
}

type AssetResponse struct {
	Address    string `json:"address"`
	Collection string `json:"collection"`
	Name       string `json:"name"`
	Symbol     string `json:"symbol"`
	URI        string `json:"uri"`
	Supply     uint64 `json:"supply"`
	Decimals   uint8  `json:"decimals"`
	CreatedAt  string `json:"createdAt"`
}

type CustodyResponse struct {
	Holder string `json:"holder"`
	Amount uint64 `json:"amount"`
	Frozen bool   `json:"frozen"`
}

type AssetDetailResponse struct {
	Asset          AssetResponse     `json:"asset"`
	Position       uint64            `json:"position"`
	Points         uint64            `json:"points"`
	Metadata       map[string]string `json:"metadata"`
	Holder         string            `json:"holder"`
	Frozen         bool              `json:"frozen"`
	Custody        []CustodyResponse `json:"custody"`
	MinimumNextBid uint64            `json:"minimumNextBid"`
}

type BidResponse struct {
	Signature       string `json:"signature"`
	Slot            uint64 `json:"slot"`
	Asset           string `json:"asset"`
	Payer           string `json:"payer"`
	PreviousHolder  string `json:"previousHolder"`
	Amount          uint64 `json:"amount"`
	PreviousOverbid uint64 `json:"previousOverbid"`
	PointsPerItem   uint64 `json:"pointsPerItem"`
	Remainder       uint64 `json:"remainder"`
	Refund          uint64 `json:"refund"`
	Pooled          uint64 `json:"pooled"`
	CreatedAt       string `json:"createdAt"`
}

type BidListResponse struct {
	Bids []BidResponse `json:"bids"`
}

func toAssetResponse(a *model.Asset) AssetResponse {
	return AssetResponse{
		Address:    a.Address,
		Collection: a.CollectionAddress,
		Name:       a.Name,
		Symbol:     a.Symbol,
		URI:        a.URI,
		Supply:     a.Supply,
		Decimals:   a.Decimals,
		CreatedAt:  a.CreatedAt.Format(time.RFC3339),
	}
}

func toBidResponse(b *model.Bid) BidResponse {
	return BidResponse{
		Signature:       b.ID,
		Slot:            b.Slot,
		Asset:           b.AssetAddress,
		Payer:           b.Payer,
		PreviousHolder:  b.PreviousHolder,
		Amount:          b.Amount,
		PreviousOverbid: b.PreviousOverbid,
		PointsPerItem:   b.PointsPerItem,
		Remainder:       b.Remainder,
		Refund:          b.Refund,
		Pooled:          b.Pooled(),
		CreatedAt:       b.CreatedAt.Format(time.RFC3339),
	}
}

func (h *AssetHandler) Issue(c echo.Context) error {
	signer, _ := c.Get("signer").(string)
	if signer == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing signer"))
	}
	var req IssueRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	a, err := h.issuance.Issue(c.Request().Context(), service.IssueParams{URI: req.URI, Payer: signer, Asset: req.Asset})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toAssetResponse(a))
}

func (h *AssetHandler) Get(c echo.Context) error {
	v, err := h.assets.Get(c.Request().Context(), c.Param("address"))
	if err != nil {
		return writeError(c, err)
	}
	resp := AssetDetailResponse{
		Asset:          toAssetResponse(v.Asset),
		Position:       v.Position,
		Points:         v.Points,
		Metadata:       v.Metadata,
		Holder:         v.Holder,
		Frozen:         v.Frozen,
		Custody:        make([]CustodyResponse, 0, len(v.Custody)),
		MinimumNextBid: v.MinimumNextBid,
	}
	for _, acct := range v.Custody {
		resp.Custody = append(resp.Custody, CustodyResponse{Holder: acct.Holder, Amount: acct.Amount, Frozen: acct.Frozen})
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *AssetHandler) ListBids(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	bids, err := h.assets.ListBids(c.Request().Context(), c.Param("address"), limit)
	if err != nil {
		return writeError(c, err)
	}
	resp := BidListResponse{Bids: make([]BidResponse, 0, len(bids))}
	for i := range bids {
		resp.Bids = append(resp.Bids, toBidResponse(&bids[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *AssetHandler) Transfer(c echo.Context) error {
	signer, _ := c.Get("signer").(string)
	if signer == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing signer"))
	}
	var req TransferRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	if err := h.assets.Transfer(c.Request().Context(), c.Param("address"), signer, req.To); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
