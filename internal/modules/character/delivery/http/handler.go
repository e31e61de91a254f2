package handler

import (
	"net/http"

	"anoa.com/fatetable/internal/middleware"
	"anoa.com/fatetable/internal/modules/character/dto"
	character "anoa.com/fatetable/internal/modules/character/service"
	"anoa.com/fatetable/pkg/response"
	"anoa.com/fatetable/pkg/textutil"
	"anoa.com/fatetable/pkg/validator"
	"github.com/gin-gonic/gin"
)

type CharacterHandler struct {
	service character.Service
}

func NewCharacterHandler(service character.Service) *CharacterHandler {
	return &CharacterHandler{service: service}
}

func (h *CharacterHandler) Create(c *gin.Context) {
	a, err := middleware.CurrentActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.CreateCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	view, err := h.service.Create(c.Request.Context(), a, character.CreateInput{
		CampaignID:  req.CampaignID,
		Name:        textutil.Sanitize(req.Name),
		Description: textutil.Sanitize(req.Description),
		IsNPC:       req.IsNPC,
		TraitIDs:    req.PersonalityTraitIDs,
	})
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

func (h *CharacterHandler) Get(c *gin.Context) {
	a, err := middleware.CurrentActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	id, ok := response.ParamUUID(c, "id")
	if !ok {
		return
	}

	view, err := h.service.Get(c.Request.Context(), a, id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *CharacterHandler) ListByCampaign(c *gin.Context) {
	a, err := middleware.CurrentActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	campaignID, ok := response.ParamUUID(c, "id")
	if !ok {
		return
	}

	views, err := h.service.ListByCampaign(c.Request.Context(), a, campaignID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": views})
}

func (h *CharacterHandler) ReplaceTraits(c *gin.Context) {
	a, err := middleware.CurrentActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	id, ok := response.ParamUUID(c, "id")
	if !ok {
		return
	}

	var req dto.ReplaceTraitsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	view, err := h.service.ReplaceTraits(c.Request.Context(), a, id, req.PersonalityTraitIDs)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *CharacterHandler) AttachSkills(c *gin.Context) {
	a, err := middleware.CurrentActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	id, ok := response.ParamUUID(c, "id")
	if !ok {
		return
	}

	var req dto.AttachSkillsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	view, err := h.service.AttachSkills(c.Request.Context(), a, id, req.SkillIDs)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *CharacterHandler) Delete(c *gin.Context) {
	a, err := middleware.CurrentActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	id, ok := response.ParamUUID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), a, id); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "character deleted"})
}
