package handler

import (
	"net/http"

	"anoa.com/fatetable/internal/middleware"
	"anoa.com/fatetable/internal/modules/rollrequest/dto"
	rollrequest "anoa.com/fatetable/internal/modules/rollrequest/service"
	"anoa.com/fatetable/pkg/response"
	"anoa.com/fatetable/pkg/textutil"
	"anoa.com/fatetable/pkg/validator"
	"github.com/gin-gonic/gin"
)

type RollRequestHandler struct {
	service rollrequest.Service
}

func NewRollRequestHandler(service rollrequest.Service) *RollRequestHandler {
	return &RollRequestHandler{service: service}
}

func (h *RollRequestHandler) Request(c *gin.Context) {
	a, err := middleware.CurrentActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	campaignID, ok := response.ParamUUID(c, "id")
	if !ok {
		return
	}

	var req dto.CreateRollRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	created, err := h.service.Request(c.Request.Context(), a, campaignID, rollrequest.RequestInput{
		CharacterID: req.CharacterID,
		SkillID:     req.SkillID,
		Description: textutil.Sanitize(req.Description),
	})
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewRollRequestResponse(created))
}

func (h *RollRequestHandler) Complete(c *gin.Context) {
	a, err := middleware.CurrentActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	campaignID, ok := response.ParamUUID(c, "id")
	if !ok {
		return
	}

	var req dto.CompleteRollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	out, err := h.service.Complete(c.Request.Context(), a, campaignID, rollrequest.CompleteInput{
		RequestID:    req.RequestID,
		UseFatePoint: req.UseFatePoint,
	})
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

func (h *RollRequestHandler) ListOpen(c *gin.Context) {
	a, err := middleware.CurrentActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	campaignID, ok := response.ParamUUID(c, "id")
	if !ok {
		return
	}

	open, err := h.service.ListOpen(c.Request.Context(), a, campaignID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.NewRollRequestList(open)})
}
