package api

import (
	"errors"
	"net/http"
	"strconv"

	resdto "auction-engine/internal/handler/dto/response"
	"auction-engine/internal/infra"
	"auction-engine/internal/pkg/errs"
	"auction-engine/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LotHandler struct {
	lotQueries queries.LotQueries
}

func NewLotHandler(lotQueries queries.LotQueries) *LotHandler {
	return &LotHandler{
		lotQueries: lotQueries,
	}
}

func (h *LotHandler) GetLot(c *gin.Context) {
	lotID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid lot ID format",
		})
		return
	}

	view, err := h.lotQueries.GetLot(c.Request.Context(), lotID)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrLotNotFound), infra.IsKind(err, infra.KindNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Lot not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromLotView(view))
}

func (h *LotHandler) GetBidHistory(c *gin.Context) {
	lotID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid lot ID format",
		})
		return
	}

	var limit int32
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid limit",
			})
			return
		}
		limit = int32(parsed)
	}

	bids, err := h.lotQueries.GetBidHistory(c.Request.Context(), lotID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response := make([]*resdto.BidHistoryItemResponse, len(bids))
	for i, b := range bids {
		response[i] = resdto.FromBidView(b)
	}

	c.JSON(http.StatusOK, response)
}
