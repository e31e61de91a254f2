package handler

import (
	"net/http"

	"anoa.com/fatetable/internal/middleware"
	"anoa.com/fatetable/internal/modules/message/dto"
	message "anoa.com/fatetable/internal/modules/message/service"
	"anoa.com/fatetable/pkg/response"
	"anoa.com/fatetable/pkg/textutil"
	"anoa.com/fatetable/pkg/validator"
	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	service message.Service
}

func NewMessageHandler(service message.Service) *MessageHandler {
	return &MessageHandler{service: service}
}

func (h *MessageHandler) Send(c *gin.Context) {
	a, err := middleware.CurrentActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	sent, err := h.service.Send(c.Request.Context(), a, message.SendInput{
		CampaignID:  req.CampaignID,
		RecipientID: req.RecipientID,
		Content:     textutil.Sanitize(req.Content),
	})
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewMessageResponse(sent))
}

func (h *MessageHandler) List(c *gin.Context) {
	a, err := middleware.CurrentActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	campaignID, ok := response.RequiredQueryUUID(c, "campaign")
	if !ok {
		return
	}
	with, ok := response.QueryUUID(c, "with")
	if !ok {
		return
	}
	var q dto.ListMessagesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	messages, err := h.service.List(c.Request.Context(), a, campaignID, with, q.Since)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.NewMessageList(messages)})
}
