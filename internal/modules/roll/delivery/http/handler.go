package handler

import (
	"net/http"

	"anoa.com/fatetable/internal/middleware"
	"anoa.com/fatetable/internal/modules/roll/dto"
	roll "anoa.com/fatetable/internal/modules/roll/service"
	"anoa.com/fatetable/pkg/response"
	"anoa.com/fatetable/pkg/textutil"
	"anoa.com/fatetable/pkg/validator"
	"github.com/gin-gonic/gin"
)

type RollHandler struct {
	service roll.Service
}

func NewRollHandler(service roll.Service) *RollHandler {
	return &RollHandler{service: service}
}

func (h *RollHandler) Roll(c *gin.Context) {
	a, err := middleware.CurrentActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.CreateRollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	view, err := h.service.Roll(c.Request.Context(), a, roll.Input{
		CharacterID:  req.CharacterID,
		SkillID:      req.SkillID,
		Description:  textutil.Sanitize(req.Description),
		UseFatePoint: req.UseFatePoint,
	})
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

func (h *RollHandler) List(c *gin.Context) {
	a, err := middleware.CurrentActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	campaignID, ok := response.RequiredQueryUUID(c, "campaign")
	if !ok {
		return
	}
	var q dto.ListRollsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	views, err := h.service.List(c.Request.Context(), a, campaignID, q.Since)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": views})
}

func (h *RollHandler) MarkSeen(c *gin.Context) {
	a, err := middleware.CurrentActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	id, ok := response.ParamUUID(c, "id")
	if !ok {
		return
	}

	if err := h.service.MarkSeen(c.Request.Context(), a, id); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "roll marked as seen"})
}
