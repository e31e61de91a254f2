package handler

import (
	"net/http"

	"anoa.com/fatetable/internal/middleware"
	"anoa.com/fatetable/internal/modules/catalog/dto"
	catalog "anoa.com/fatetable/internal/modules/catalog/service"
	"anoa.com/fatetable/pkg/response"
	"anoa.com/fatetable/pkg/textutil"
	"anoa.com/fatetable/pkg/validator"
	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	service catalog.Service
}

func NewCatalogHandler(service catalog.Service) *CatalogHandler {
	return &CatalogHandler{service: service}
}

func bindEntry(c *gin.Context) (catalog.EntryInput, bool) {
	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return catalog.EntryInput{}, false
	}
	return catalog.EntryInput{
		Name:        textutil.Sanitize(req.Name),
		Description: textutil.Sanitize(req.Description),
		UseStatus:   textutil.Sanitize(req.UseStatus),
		Bonus:       req.Bonus,
		CampaignID:  req.CampaignID,
	}, true
}

func (h *CatalogHandler) CreateSkill(c *gin.Context) {
	a, err := middleware.CurrentActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	in, ok := bindEntry(c)
	if !ok {
		return
	}

	skill, err := h.service.CreateSkill(c.Request.Context(), a, in)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, skill)
}

func (h *CatalogHandler) ListSkills(c *gin.Context) {
	campaignID, ok := response.QueryUUID(c, "campaign")
	if !ok {
		return
	}
	skills, err := h.service.ListSkills(c.Request.Context(), campaignID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": skills})
}

func (h *CatalogHandler) CreateTrait(c *gin.Context) {
	a, err := middleware.CurrentActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	in, ok := bindEntry(c)
	if !ok {
		return
	}

	trait, err := h.service.CreateTrait(c.Request.Context(), a, in)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, trait)
}

func (h *CatalogHandler) ListTraits(c *gin.Context) {
	campaignID, ok := response.QueryUUID(c, "campaign")
	if !ok {
		return
	}
	traits, err := h.service.ListTraits(c.Request.Context(), campaignID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": traits})
}
