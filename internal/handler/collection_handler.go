package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/overbid-backend/internal/model"
	"github.com/shinyyama/overbid-backend/internal/service"
)

type CollectionHandler struct {
	svc service.CollectionService
}

func NewCollectionHandler(svc service.CollectionService) *CollectionHandler {
	return &CollectionHandler{svc: svc}
}

type CollectionResponse struct {
	Address   string `json:"address"`
	Seed      string `json:"seed"`
	Bump      uint8  `json:"bump"`
	ProgramID string `json:"programId"`
	Authority string `json:"authority"`
	CreatedAt string `json:"createdAt"`
}

type SnapshotResponse struct {
	Collection CollectionResponse `json:"collection"`
	Items      []service.ItemView `json:"items"`
	Reserve    uint64             `json:"reserve"`
}

func toCollectionResponse(c *model.Collection) CollectionResponse {
	return CollectionResponse{
		Address:   c.Address,
		Seed:      c.Seed,
		Bump:      c.Bump,
		ProgramID: c.ProgramID,
		Authority: c.Authority,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
}

func (h *CollectionHandler) Initialize(c echo.Context) error {
	signer, _ := c.Get("signer").(string)
	if signer == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing signer"))
	}
	col, err := h.svc.Initialize(c.Request().Context(), signer)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toCollectionResponse(col))
}

func (h *CollectionHandler) Get(c echo.Context) error {
	snap, err := h.svc.Snapshot(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SnapshotResponse{
		Collection: toCollectionResponse(snap.Collection),
		Items:      snap.Items,
		Reserve:    snap.Reserve,
	})
}
