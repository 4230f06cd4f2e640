package request

import (
	"fleetbook/internal/domain/user"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (r LoginRequest) ToDomain() (user.Email, string, error) {
	email, err := user.NewEmail(r.Email)
	if err != nil {
		return user.Email{}, "", err
	}
	return email, r.Password, nil
}
