package handler

import (
	"net/http"

	"anoa.com/fatetable/internal/middleware"
	"anoa.com/fatetable/internal/modules/power/dto"
	power "anoa.com/fatetable/internal/modules/power/service"
	"anoa.com/fatetable/pkg/response"
	"anoa.com/fatetable/pkg/validator"
	"github.com/gin-gonic/gin"
)

type PowerHandler struct {
	service power.Service
}

func NewPowerHandler(service power.Service) *PowerHandler {
	return &PowerHandler{service: service}
}

func (h *PowerHandler) UpdateStats(c *gin.Context) {
	a, err := middleware.CurrentActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	id, ok := response.ParamUUID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateStatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	ch, err := h.service.UpdateStats(c.Request.Context(), a, id, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewCharacterState(ch))
}

func (h *PowerHandler) SetRelease(c *gin.Context) {
	a, err := middleware.CurrentActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	id, ok := response.ParamUUID(c, "id")
	if !ok {
		return
	}

	var req dto.SetReleaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	ch, err := h.service.SetRelease(c.Request.Context(), a, id, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":            ch.ID,
		"shikai_active": ch.ShikaiActive,
		"bankai_active": ch.BankaiActive,
	})
}

func (h *PowerHandler) AddFatePoints(c *gin.Context) {
	a, err := middleware.CurrentActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	id, ok := response.ParamUUID(c, "id")
	if !ok {
		return
	}

	req := dto.AddFatePointsRequest{Amount: 1}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
			return
		}
	}

	ch, err := h.service.AddFatePoints(c.Request.Context(), a, id, req.Amount)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": ch.ID, "fate_points": ch.FatePoints})
}

func (h *PowerHandler) Owned(c *gin.Context) {
	a, err := middleware.CurrentActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	id, ok := response.ParamUUID(c, "id")
	if !ok {
		return
	}

	owned, err := h.service.Owned(c.Request.Context(), a, id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, owned)
}
