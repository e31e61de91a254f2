package handler

import (
	"net/http"

	"anoa.com/fatetable/internal/middleware"
	"anoa.com/fatetable/internal/modules/note/dto"
	note "anoa.com/fatetable/internal/modules/note/service"
	"anoa.com/fatetable/pkg/response"
	"anoa.com/fatetable/pkg/textutil"
	"anoa.com/fatetable/pkg/validator"
	"github.com/gin-gonic/gin"
)

type NoteHandler struct {
	service note.Service
}

func NewNoteHandler(service note.Service) *NoteHandler {
	return &NoteHandler{service: service}
}

func (h *NoteHandler) Create(c *gin.Context) {
	a, err := middleware.CurrentActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	created, err := h.service.Create(c.Request.Context(), a, req.CharacterID, textutil.Sanitize(req.Content))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewNoteResponse(created))
}

// List serves GET /notes?character= and GET /characters/:id/notes.
func (h *NoteHandler) List(c *gin.Context) {
	a, err := middleware.CurrentActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	id, ok := response.QueryUUID(c, "character")
	if !ok {
		return
	}
	if c.Param("id") != "" {
		parsed, ok := response.ParamUUID(c, "id")
		if !ok {
			return
		}
		id = &parsed
	}
	if id == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "character is required"})
		return
	}

	notes, err := h.service.List(c.Request.Context(), a, *id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.NewNoteList(notes)})
}

func (h *NoteHandler) Update(c *gin.Context) {
	a, err := middleware.CurrentActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	id, ok := response.ParamUUID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	updated, err := h.service.Update(c.Request.Context(), a, id, textutil.Sanitize(req.Content))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewNoteResponse(updated))
}

func (h *NoteHandler) Delete(c *gin.Context) {
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

	c.JSON(http.StatusOK, gin.H{"message": "note deleted"})
}
