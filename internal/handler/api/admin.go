package api

import (
	"errors"
	"net/http"

	reqdto "auction-engine/internal/handler/dto/request"
	resdto "auction-engine/internal/handler/dto/response"
	"auction-engine/internal/domain/lot"
	"auction-engine/internal/pkg/clock"
	"auction-engine/internal/pkg/errs"
	"auction-engine/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AdminHandler is the operator surface: opening lots and forcing
// settlement. Bid traffic never goes through here.
type AdminHandler struct {
	lotCommands   commands.LotCommands
	closeCommands commands.CloseCommands
	clock         clock.Clock
}

func NewAdminHandler(lotCommands commands.LotCommands, closeCommands commands.CloseCommands, clk clock.Clock) *AdminHandler {
	return &AdminHandler{
		lotCommands:   lotCommands,
		closeCommands: closeCommands,
		clock:         clk,
	}
}

func (h *AdminHandler) OpenLot(c *gin.Context) {
	lotID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid lot ID format",
		})
		return
	}

	var req reqdto.OpenLotRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	err = h.lotCommands.OpenLot(c.Request.Context(), lotID, req.LiveEndAt)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrLotNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Lot not found",
			})
		case errors.Is(err, lot.ErrMissingLiveWindow):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Live window end must be in the future",
			})
		case errors.Is(err, errs.ErrLotNotEligible):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Lot cannot be opened from its current status",
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

func (h *AdminHandler) CloseLot(c *gin.Context) {
	lotID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid lot ID format",
		})
		return
	}

	outcome, err := h.closeCommands.CloseLot(c.Request.Context(), lotID)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrLotNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Lot not found",
			})
		case errors.Is(err, errs.ErrLotNotLive):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Lot is not live",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromCloseOutcome(outcome))
}

func (h *AdminHandler) CloseExpiredLots(c *gin.Context) {
	outcomes, err := h.closeCommands.CloseExpiredLots(c.Request.Context(), h.clock.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response := make([]*resdto.CloseOutcomeResponse, len(outcomes))
	for i, o := range outcomes {
		response[i] = resdto.FromCloseOutcome(o)
	}

	c.JSON(http.StatusOK, response)
}
