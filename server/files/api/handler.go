package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"files_manager/server/common/transport/httpresp"
	"files_manager/server/files/domain"
	"files_manager/server/files/service"
)

const tokenHeader = "X-Token"

type Handler struct {
	auth      *service.AuthService
	users     *service.UserService
	files     *service.FileService
	redisPing func(context.Context) error
	dbPing    func(context.Context) error
}

func NewHandler(auth *service.AuthService, users *service.UserService, files *service.FileService, redisPing, dbPing func(context.Context) error) *Handler {
	return &Handler{auth: auth, users: users, files: files, redisPing: redisPing, dbPing: dbPing}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/status", h.getStatus)
	r.GET("/stats", h.getStats)
	r.POST("/users", h.postUsers)
	r.GET("/connect", h.getConnect)
	r.GET("/disconnect", h.getDisconnect)
	r.GET("/users/me", h.getMe)
	r.POST("/files", h.postFiles)
	r.GET("/files/:id", h.getFile)
	r.GET("/files", h.getFiles)
}

func (h *Handler) getStatus(c *gin.Context) {
	ctx := c.Request.Context()
	status := httpresp.StatusResponse{
		Redis: h.redisPing(ctx) == nil,
		DB:    h.dbPing(ctx) == nil,
	}
	if !status.Redis || !status.DB {
		c.JSON(http.StatusServiceUnavailable, status)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *Handler) getStats(c *gin.Context) {
	users, files, err := h.users.Stats(c.Request.Context())
	if err != nil {
		// Store failures here historically answered 200 with an error body.
		c.JSON(http.StatusOK, httpresp.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, httpresp.StatsResponse{Users: users, Files: files})
}

func (h *Handler) postUsers(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	_ = c.ShouldBindJSON(&req)

	user, err := h.users.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingEmail),
			errors.Is(err, domain.ErrMissingPassword),
			errors.Is(err, domain.ErrAlreadyExist):
			c.JSON(http.StatusBadRequest, httpresp.NewErrorResponse(err.Error()))
		default:
			c.JSON(http.StatusOK, httpresp.NewErrorResponse(err.Error()))
		}
		return
	}
	c.JSON(http.StatusCreated, httpresp.NewUserResponse(user.ID, user.Email))
}

func (h *Handler) getConnect(c *gin.Context) {
	token, err := h.auth.Connect(c.Request.Context(), c.GetHeader("Authorization"))
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, httpresp.NewErrorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, httpresp.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, httpresp.NewTokenResponse(token))
}

func (h *Handler) getDisconnect(c *gin.Context) {
	if err := h.auth.Disconnect(c.Request.Context(), c.GetHeader(tokenHeader)); err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, httpresp.NewErrorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, httpresp.NewErrorResponse(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) getMe(c *gin.Context) {
	user, err := h.auth.WhoAmI(c.Request.Context(), c.GetHeader(tokenHeader))
	if err != nil {
		c.JSON(http.StatusUnauthorized, httpresp.NewErrorResponse(domain.ErrUnauthorized.Error()))
		return
	}
	c.JSON(http.StatusOK, httpresp.NewUserResponse(user.ID, user.Email))
}

func (h *Handler) postFiles(c *gin.Context) {
	userID, err := h.auth.ResolveUser(c.Request.Context(), c.GetHeader(tokenHeader))
	if err != nil {
		c.JSON(http.StatusUnauthorized, httpresp.NewErrorResponse(domain.ErrUnauthorized.Error()))
		return
	}

	var req struct {
		Name     string          `json:"name"`
		Type     domain.FileType `json:"type"`
		ParentID domain.ParentID `json:"parentId"`
		IsPublic bool            `json:"isPublic"`
		Data     string          `json:"data"`
	}
	_ = c.ShouldBindJSON(&req)

	rec, err := h.files.Upload(c.Request.Context(), userID, service.UploadInput{
		Name:     req.Name,
		Type:     req.Type,
		ParentID: req.ParentID,
		IsPublic: req.IsPublic,
		Data:     req.Data,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingName),
			errors.Is(err, domain.ErrMissingType),
			errors.Is(err, domain.ErrParentNotFound),
			errors.Is(err, domain.ErrParentNotFolder):
			c.JSON(http.StatusBadRequest, httpresp.NewErrorResponse(err.Error()))
		default:
			c.JSON(http.StatusInternalServerError, httpresp.NewErrorResponse(err.Error()))
		}
		return
	}
	c.JSON(http.StatusCreated, uploadResponse(rec))
}

// uploadResponse mirrors the historical wire shape: folder responses carry
// the type, file and image responses do not.
func uploadResponse(rec domain.FileRecord) gin.H {
	resp := gin.H{
		"id":       rec.ID,
		"userId":   rec.UserID,
		"name":     rec.Name,
		"isPublic": rec.IsPublic,
		"parentId": rec.ParentID,
	}
	if rec.Type == domain.FileTypeFolder {
		resp["type"] = rec.Type
	}
	return resp
}

func (h *Handler) getFile(c *gin.Context) {
	userID, err := h.auth.ResolveUser(c.Request.Context(), c.GetHeader(tokenHeader))
	if err != nil {
		c.JSON(http.StatusUnauthorized, httpresp.NewErrorResponse(domain.ErrUnauthorized.Error()))
		return
	}

	rec, err := h.files.Show(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, httpresp.NewErrorResponse(domain.ErrNotFound.Error()))
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) getFiles(c *gin.Context) {
	userID, err := h.auth.ResolveUser(c.Request.Context(), c.GetHeader(tokenHeader))
	if err != nil {
		c.JSON(http.StatusUnauthorized, httpresp.NewErrorResponse(domain.ErrUnauthorized.Error()))
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil {
		page = 0
	}
	parentID := domain.ParseParentID(c.Query("parentId"))

	records, err := h.files.Index(c.Request.Context(), userID, parentID, page)
	if err != nil {
		c.JSON(http.StatusInternalServerError, httpresp.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, records)
}
