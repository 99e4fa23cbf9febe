package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/davicafu/rentacarritos/internal/user/application"
	"github.com/davicafu/rentacarritos/internal/user/domain"
	"github.com/davicafu/rentacarritos/pkg/utils"
)

// UserHandler encapsula los endpoints HTTP relacionados con User
type UserHandler struct {
	service *application.UserService
}

// NewUserHandler crea un nuevo UserHandler
func NewUserHandler(service *application.UserService) *UserHandler {
	return &UserHandler{service: service}
}

type addressReq struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
}

func (a addressReq) toDomain() domain.Address {
	return domain.Address{Street: a.Street, City: a.City, State: a.State, ZipCode: a.ZipCode}
}

// ---------------- Handlers ----------------

// Login endpoint POST /auth/login
func (h *UserHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	user, err := h.service.Login(c.Request.Context(), domain.Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		var authErr *domain.AuthError
		if errors.As(err, &authErr) {
			switch authErr.Kind {
			case domain.AuthInvalidCredentials, domain.AuthUserNotFound:
				utils.SendError(c, http.StatusUnauthorized, authErr.Error())
			default:
				utils.SendError(c, http.StatusBadGateway, authErr.Error())
			}
			return
		}
		utils.SendInternalServerError(c, err.Error())
		return
	}

	utils.SendSuccess(c, http.StatusOK, user)
}

// RegisterUser endpoint POST /users
func (h *UserHandler) RegisterUser(c *gin.Context) {
	var req struct {
		Nombre  string     `json:"nombre" binding:"required"`
		Email   string     `json:"email" binding:"required,email"`
		Phone   string     `json:"phone"`
		Address addressReq `json:"address"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	user, err := h.service.RegisterUser(c.Request.Context(), req.Nombre, req.Email, req.Phone, req.Address.toDomain())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidUser):
			utils.SendBadRequest(c, err.Error())
		case errors.Is(err, domain.ErrUserAlreadyExists):
			utils.SendConflict(c, err.Error())
		default:
			utils.SendInternalServerError(c, err.Error())
		}
		return
	}

	utils.SendSuccess(c, http.StatusCreated, user)
}

// GetUser endpoint GET /users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendBadRequest(c, "invalid user id")
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			utils.SendNotFound(c, "user not found")
			return
		}
		utils.SendInternalServerError(c, err.Error())
		return
	}

	utils.SendSuccess(c, http.StatusOK, user)
}

// UpdateProfile endpoint PUT /users/:id
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendBadRequest(c, "invalid user id")
		return
	}

	var req struct {
		Nombre  string     `json:"nombre" binding:"required"`
		Phone   string     `json:"phone"`
		Address addressReq `json:"address"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), id, req.Nombre, req.Phone, req.Address.toDomain())
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			utils.SendNotFound(c, "user not found")
			return
		}
		utils.SendInternalServerError(c, err.Error())
		return
	}

	utils.SendSuccess(c, http.StatusOK, user)
}
