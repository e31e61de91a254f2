package handler

import (
	"net/http"

	"anoa.com/fatetable/internal/entity"
	"anoa.com/fatetable/internal/middleware"
	"anoa.com/fatetable/internal/modules/idea/dto"
	idea "anoa.com/fatetable/internal/modules/idea/service"
	"anoa.com/fatetable/pkg/response"
	"anoa.com/fatetable/pkg/textutil"
	"anoa.com/fatetable/pkg/validator"
	"github.com/gin-gonic/gin"
)

type IdeaHandler struct {
	service idea.Service
}

func NewIdeaHandler(service idea.Service) *IdeaHandler {
	return &IdeaHandler{service: service}
}

func powerPayload(req dto.SubmitPowerIdeaRequest) idea.Payload {
	switch entity.PowerType(req.IdeaType) {
	case entity.PowerStand:
		return idea.StandPayload{StandType: textutil.Sanitize(req.StandType)}
	case entity.PowerZanpakuto:
		return idea.ZanpakutoPayload{SpiritName: textutil.Sanitize(req.SpiritName)}
	case entity.PowerCursed:
		return idea.CursedPayload{TechniqueType: textutil.Sanitize(req.TechniqueType)}
	}
	return nil
}

func (h *IdeaHandler) SubmitPower(c *gin.Context) {
	a, err := middleware.CurrentActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.SubmitPowerIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	created, err := h.service.SubmitPower(c.Request.Context(), a, idea.PowerInput{
		CampaignID:  req.CampaignID,
		CharacterID: req.CharacterID,
		Type:        entity.PowerType(req.IdeaType),
		Name:        textutil.Sanitize(req.Name),
		Description: textutil.Sanitize(req.Description),
		Payload:     powerPayload(req),
	})
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *IdeaHandler) ApprovePower(c *gin.Context) {
	a, err := middleware.CurrentActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	id, ok := response.ParamUUID(c, "id")
	if !ok {
		return
	}

	var req dto.ApprovePowerIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	approved, err := h.service.ApprovePower(c.Request.Context(), a, id, idea.ApprovePowerInput{
		ResponseMessage: textutil.Sanitize(req.ResponseMessage),
		StandType:       textutil.Sanitize(req.StandType),
		Stats: idea.StandStats{
			DestructivePower:     req.DestructivePower,
			Speed:                req.Speed,
			RangeStat:            req.RangeStat,
			Stamina:              req.Stamina,
			Precision:            req.Precision,
			DevelopmentPotential: req.DevelopmentPotential,
		},
		ShikaiCommand: textutil.Sanitize(req.ShikaiCommand),
		ShikaiName:    textutil.Sanitize(req.ShikaiName),
		BankaiCommand: textutil.Sanitize(req.BankaiCommand),
		BankaiName:    textutil.Sanitize(req.BankaiName),
		TechniqueType: textutil.Sanitize(req.TechniqueType),
	})
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, approved)
}

func (h *IdeaHandler) RejectPower(c *gin.Context) {
	a, err := middleware.CurrentActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	id, ok := response.ParamUUID(c, "id")
	if !ok {
		return
	}

	var req dto.RejectIdeaRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
			return
		}
	}

	rejected, err := h.service.RejectPower(c.Request.Context(), a, id, textutil.Sanitize(req.Reason))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, rejected)
}

func (h *IdeaHandler) ListPower(c *gin.Context) {
	a, err := middleware.CurrentActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	campaignID, ok := response.RequiredQueryUUID(c, "campaign")
	if !ok {
		return
	}
	var q dto.ListIdeasQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	ideas, err := h.service.ListPower(c.Request.Context(), a, campaignID, statusFilter(q.Status))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": ideas})
}

func (h *IdeaHandler) SubmitSkill(c *gin.Context) {
	a, err := middleware.CurrentActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.SubmitSkillIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	created, err := h.service.SubmitSkill(c.Request.Context(), a, idea.SkillInput{
		CampaignID:  req.CampaignID,
		CharacterID: req.CharacterID,
		Name:        textutil.Sanitize(req.Name),
		Description: textutil.Sanitize(req.Description),
		UseStatus:   textutil.Sanitize(req.UseStatus),
	})
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *IdeaHandler) ApproveSkill(c *gin.Context) {
	a, err := middleware.CurrentActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	id, ok := response.ParamUUID(c, "id")
	if !ok {
		return
	}

	var req dto.ApproveSkillIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	approved, err := h.service.ApproveSkill(c.Request.Context(), a, id, req.Mastery, textutil.Sanitize(req.ResponseMessage))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, approved)
}

func (h *IdeaHandler) RejectSkill(c *gin.Context) {
	a, err := middleware.CurrentActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	id, ok := response.ParamUUID(c, "id")
	if !ok {
		return
	}

	var req dto.RejectIdeaRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
			return
		}
	}

	rejected, err := h.service.RejectSkill(c.Request.Context(), a, id, textutil.Sanitize(req.Reason))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, rejected)
}

func (h *IdeaHandler) ListSkill(c *gin.Context) {
	a, err := middleware.CurrentActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	campaignID, ok := response.RequiredQueryUUID(c, "campaign")
	if !ok {
		return
	}
	var q dto.ListIdeasQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	ideas, err := h.service.ListSkill(c.Request.Context(), a, campaignID, statusFilter(q.Status))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": ideas})
}

func statusFilter(raw string) *entity.IdeaStatus {
	if raw == "" {
		return nil
	}
	s := entity.IdeaStatus(raw)
	return &s
}
