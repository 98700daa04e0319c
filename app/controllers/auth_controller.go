package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/logitrack/app/services"
	appctx "github.com/shashiranjanraj/logitrack/pkg/ctx"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

type credentials struct {
	Email    string `json:"email"    validate:"required,email,max=256"`
	Password string `json:"password" validate:"required"`
}

// loginInput carries no format rules so a malformed email is answered as
// bad credentials.
type loginInput struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse is the body of a successful login.
type TokenResponse struct {
	Token string `json:"token"`
}

func (ac *AuthController) Register(c *appctx.Context) {
	var in credentials
	if !c.BindJSON(&in) {
		return
	}
	if err := ac.service.Register(c.Context(), in.Email, in.Password); err != nil {
		c.Fail(err)
		return
	}
	c.JSON(http.StatusOK, "Registered")
}

func (ac *AuthController) Login(c *appctx.Context) {
	var in loginInput
	if !c.BindJSON(&in) {
		return
	}
	token, err := ac.service.Login(c.Context(), in.Email, in.Password)
	if err != nil {
		c.Fail(err)
		return
	}
	c.JSON(http.StatusOK, TokenResponse{Token: token})
}
