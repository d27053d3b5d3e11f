package request

import "proximity-pay/internal/usecase/commands"

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

func (r *LoginRequest) ToParams() commands.LoginParams {
	return commands.LoginParams{
		Email:    r.Email,
		Password: r.Password,
	}
}
