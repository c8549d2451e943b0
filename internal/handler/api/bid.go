package api

import (
	"errors"
	"net/http"

	reqdto "auction-engine/internal/handler/dto/request"
	resdto "auction-engine/internal/handler/dto/response"
	"auction-engine/internal/handler/middleware"
	"auction-engine/internal/pkg/errs"
	"auction-engine/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BidHandler struct {
	bidCommands   commands.BidCommands
	proxyCommands commands.ProxyBidCommands
}

func NewBidHandler(bidCommands commands.BidCommands, proxyCommands commands.ProxyBidCommands) *BidHandler {
	return &BidHandler{
		bidCommands:   bidCommands,
		proxyCommands: proxyCommands,
	}
}

func (h *BidHandler) PlaceBid(c *gin.Context) {
	bidderID, ok := middleware.GetBidderID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	lotID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid lot ID format",
		})
		return
	}

	var req reqdto.PlaceBidRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	amount, err := req.ParseAmount()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid amount format",
		})
		return
	}

	result, err := h.bidCommands.PlaceBid(c.Request.Context(), lotID, bidderID, amount)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrLotNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Lot not found",
			})
		case errors.Is(err, errs.ErrLotNotLive):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Lot is not open for bidding",
			})
		case errors.Is(err, errs.ErrBidTooLow):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Bid does not meet the minimum increment",
			})
		case errors.Is(err, errs.ErrTransientConflict):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Bidding contention too high, please retry",
			})
		case errors.Is(err, errs.ErrUnauthorized):
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Unauthorized",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromPlaceBidResult(result))
}

func (h *BidHandler) SetProxyBid(c *gin.Context) {
	bidderID, ok := middleware.GetBidderID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	lotID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid lot ID format",
		})
		return
	}

	var req reqdto.SetProxyBidRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	maxAmount, err := req.ParseMaxAmount()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid max amount format",
		})
		return
	}

	err = h.proxyCommands.SetProxyBid(c.Request.Context(), lotID, bidderID, maxAmount)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrLotNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Lot not found",
			})
		case errors.Is(err, errs.ErrLotNotEligible):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Lot is not accepting proxy bids",
			})
		case errors.Is(err, errs.ErrProxyBelowMinimum):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Maximum does not meet the minimum increment",
			})
		case errors.Is(err, errs.ErrUnauthorized):
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Unauthorized",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
