package handler

import (
	"context"

	"foboh/internal/dto"
	"foboh/internal/service"
)

type stubAuth struct{}

func (stubAuth) Login(context.Context, dto.LoginRequest) (*dto.LoginResponse, error) {
	return nil, service.ErrInvalidCredentials
}
