// Package controllers holds the HTTP handlers. Controllers parse and
// validate the request, call one service method, and translate the result
// (or the service error kind) into the JSON envelope.
package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/vastra/app/services"
	"github.com/shashiranjanraj/vastra/pkg/bind"
	"github.com/shashiranjanraj/vastra/pkg/response"
)

// respondErr maps a service error kind to an HTTP status and writes the
// failure envelope.
func respondErr(w http.ResponseWriter, err error) {
	kind := services.KindOf(err)

	status := http.StatusInternalServerError
	message := "something went wrong"
	switch kind {
	case services.KindNotFound:
		status = http.StatusNotFound
		message = err.Error()
	case services.KindInvalidState:
		status = http.StatusBadRequest
		message = err.Error()
	}

	response.Failure(w, status, string(kind), message)
}

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Register creates a new account.
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var body registerRequest
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user, err := c.auth.Register(body.Name, body.Email, body.Password)
	if err != nil {
		respondErr(w, err)
		return
	}
	response.Created(w, user)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login exchanges credentials for a JWT.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if errs, err := bind.JSON(r, &body); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	token, err := c.auth.Login(body.Email, body.Password)
	if err != nil {
		// Bad credentials always answer 401, whatever the service said.
		if services.KindOf(err) != services.KindInternal {
			response.Unauthorized(w)
			return
		}
		respondErr(w, err)
		return
	}
	response.Success(w, map[string]string{"token": token})
}
