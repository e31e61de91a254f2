package handler

import (
	"net/http"

	"anoa.com/fatetable/internal/entity"
	"anoa.com/fatetable/internal/middleware"
	"anoa.com/fatetable/internal/modules/campaign/dto"
	campaign "anoa.com/fatetable/internal/modules/campaign/service"
	"anoa.com/fatetable/pkg/response"
	"anoa.com/fatetable/pkg/textutil"
	"anoa.com/fatetable/pkg/validator"
	"github.com/gin-gonic/gin"
)

type CampaignHandler struct {
	service campaign.Service
}

func NewCampaignHandler(service campaign.Service) *CampaignHandler {
	return &CampaignHandler{service: service}
}

func (h *CampaignHandler) Create(c *gin.Context) {
	a, err := middleware.CurrentActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	created, err := h.service.Create(c.Request.Context(), a, campaign.CreateInput{
		Name:         textutil.Sanitize(req.Name),
		Description:  textutil.Sanitize(req.Description),
		CampaignType: entity.CampaignType(req.CampaignType),
	})
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewCampaignResponse(created, a))
}

func (h *CampaignHandler) List(c *gin.Context) {
	a, err := middleware.CurrentActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	campaigns, err := h.service.ListMine(c.Request.Context(), a)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	out := make([]dto.CampaignResponse, 0, len(campaigns))
	for i := range campaigns {
		out = append(out, dto.NewCampaignResponse(&campaigns[i], a))
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (h *CampaignHandler) Get(c *gin.Context) {
	a, err := middleware.CurrentActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	id, ok := response.ParamUUID(c, "id")
	if !ok {
		return
	}

	found, err := h.service.Get(c.Request.Context(), a, id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewCampaignResponse(found, a))
}

func (h *CampaignHandler) Ban(c *gin.Context) {
	a, err := middleware.CurrentActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	id, ok := response.ParamUUID(c, "id")
	if !ok {
		return
	}

	var req dto.BanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	ban, err := h.service.Ban(c.Request.Context(), a, id, req.UserID, textutil.Sanitize(req.Reason))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ban)
}

func (h *CampaignHandler) Poll(c *gin.Context) {
	a, err := middleware.CurrentActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	id, ok := response.ParamUUID(c, "id")
	if !ok {
		return
	}

	var q dto.PollQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "since must be an RFC 3339 timestamp"})
		return
	}

	out, err := h.service.Poll(c.Request.Context(), a, id, q.Since)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

// UpdateMap stores the request body as the campaign's map document.
func (h *CampaignHandler) UpdateMap(c *gin.Context) {
	a, err := middleware.CurrentActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	id, ok := response.ParamUUID(c, "id")
	if !ok {
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	updated, err := h.service.UpdateMap(c.Request.Context(), a, id, body)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewCampaignResponse(updated, a))
}
