package rest

import "github.com/dmitrijs2005/filehost/internal/server/models"

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string            `json:"token"`
	User  models.UserPublic `json:"user"`
}

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
