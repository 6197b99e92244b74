package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"labstock-system/internal/apperr"
	"labstock-system/internal/database/models"
	"labstock-system/internal/utils"
)

type UserHandler struct {
	db       *gorm.DB
	tokenTTL time.Duration
}

func NewUserHandler(db *gorm.DB, tokenTTL time.Duration) *UserHandler {
	return &UserHandler{db: db, tokenTTL: tokenTTL}
}

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func successResponse(message string, data interface{}) APIResponse {
	return APIResponse{Success: true, Message: message, Data: data}
}

func errorResponse(message string) APIResponse {
	return APIResponse{Success: false, Message: message}
}

type LoginRequest struct {
	Email string `json:"email" binding:"required,email"`
	Senha string `json:"senha" binding:"required"`
}

func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("corpo da requisição inválido: "+err.Error()))
		return
	}

	var u models.Usuario
	if err := h.db.Where("email = ?", req.Email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, errorResponse("Credenciais inválidas"))
			return
		}
		c.JSON(apperr.HTTPStatus(apperr.Storage("erro ao autenticar", err)), errorResponse("erro ao autenticar"))
		return
	}

	// Legacy schema stores the password as-is; constant-time compare is
	// pointless without a hash. TODO: migrate usuarios.senha to bcrypt.
	if u.Senha != req.Senha {
		c.JSON(http.StatusUnauthorized, errorResponse("Credenciais inválidas"))
		return
	}

	token, expiresAt, err := utils.GenerateToken(u.ID, u.Nome, u.Email, h.tokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("erro ao gerar token"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Login realizado com sucesso", gin.H{
		"id":         u.ID,
		"nome":       u.Nome,
		"email":      u.Email,
		"token":      token,
		"expires_at": expiresAt,
	}))
}
