package handler

import (
	"net/http"

	"anoa.com/fatetable/internal/entity"
	"anoa.com/fatetable/internal/middleware"
	"anoa.com/fatetable/internal/modules/kidou/dto"
	kidouRepo "anoa.com/fatetable/internal/modules/kidou/repository"
	kidou "anoa.com/fatetable/internal/modules/kidou/service"
	"anoa.com/fatetable/pkg/response"
	"anoa.com/fatetable/pkg/validator"
	"github.com/gin-gonic/gin"
)

type KidouHandler struct {
	service kidou.Service
}

func NewKidouHandler(service kidou.Service) *KidouHandler {
	return &KidouHandler{service: service}
}

// ListSpells serves GET /bleach-spells.
func (h *KidouHandler) ListSpells(c *gin.Context) {
	var q dto.ListSpellsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	filter := kidouRepo.SpellFilter{Tier: q.Tier}
	if q.SpellType != "" {
		t := entity.KidouType(q.SpellType)
		filter.SpellType = &t
	}
	spells, err := h.service.ListSpells(c.Request.Context(), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": spells})
}

// Offer serves POST /characters/:id/kidou_offers.
func (h *KidouHandler) Offer(c *gin.Context) {
	a, err := middleware.CurrentActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	id, ok := response.ParamUUID(c, "id")
	if !ok {
		return
	}

	var req dto.OfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	offer, err := h.service.Offer(c.Request.Context(), a, kidou.OfferInput{
		CharacterID: id,
		Tier:        *req.Tier,
		SpellIDs:    req.SpellIDs,
	})
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewOfferResponse(offer))
}

// Sheet serves GET /characters/:id/kidou.
func (h *KidouHandler) Sheet(c *gin.Context) {
	a, err := middleware.CurrentActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	id, ok := response.ParamUUID(c, "id")
	if !ok {
		return
	}

	sheet, err := h.service.Sheet(c.Request.Context(), a, id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, sheet)
}

// Choose serves POST /kidou-offers/:id/choose.
func (h *KidouHandler) Choose(c *gin.Context) {
	a, err := middleware.CurrentActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	id, ok := response.ParamUUID(c, "id")
	if !ok {
		return
	}

	var req dto.ChooseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	learned, err := h.service.Choose(c.Request.Context(), a, id, req.SpellID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, learned)
}
