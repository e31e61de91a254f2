package handler

import (
	"net/http"

	"anoa.com/fatetable/internal/middleware"
	"anoa.com/fatetable/internal/modules/item/dto"
	item "anoa.com/fatetable/internal/modules/item/service"
	"anoa.com/fatetable/pkg/response"
	"anoa.com/fatetable/pkg/textutil"
	"anoa.com/fatetable/pkg/validator"
	"github.com/gin-gonic/gin"
)

type ItemHandler struct {
	service item.Service
}

func NewItemHandler(service item.Service) *ItemHandler {
	return &ItemHandler{service: service}
}

func (h *ItemHandler) Create(c *gin.Context) {
	a, err := middleware.CurrentActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	created, err := h.service.Create(c.Request.Context(), a, item.CreateInput{
		CharacterID: req.CharacterID,
		Name:        textutil.Sanitize(req.Name),
		Description: textutil.Sanitize(req.Description),
		ItemType:    textutil.Sanitize(req.ItemType),
		Quantity:    req.Quantity,
		Durability:  req.Durability,
	})
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// ListByCharacter serves GET /characters/:id/items.
func (h *ItemHandler) ListByCharacter(c *gin.Context) {
	a, err := middleware.CurrentActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	id, ok := response.ParamUUID(c, "id")
	if !ok {
		return
	}

	items, err := h.service.ListByCharacter(c.Request.Context(), a, id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (h *ItemHandler) Transfer(c *gin.Context) {
	a, err := middleware.CurrentActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	id, ok := response.ParamUUID(c, "id")
	if !ok {
		return
	}

	var req dto.TransferItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	out, err := h.service.Transfer(c.Request.Context(), a, id, req.ToCharacterID, req.Quantity)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}
