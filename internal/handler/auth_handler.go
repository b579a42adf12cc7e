package handler

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"tutor-scheduling-api/internal/auth"
	"tutor-scheduling-api/internal/model"
	"tutor-scheduling-api/internal/rpc"
)

func (h *Handler) Register(ctx context.Context, req *rpc.RegisterRequest) (*rpc.RegisterResponse, error) {
	if err := h.check(req); err != nil {
		return nil, err
	}
	role := req.Role
	if role == "" {
		role = model.RoleStudent
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}

	now := time.Now()
	u := model.User{
		ID:                 uuid.New().String(),
		Email:              strings.TrimSpace(req.Email),
		PasswordHash:       hash,
		Name:               req.Name,
		Role:               role,
		BookedAppointments: []string{},
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := h.users.CreateUser(ctx, u); err != nil {
		// dup email, but don't reveal that
		return nil, status.Error(codes.AlreadyExists, "registration failed")
	}

	tok, err := auth.MakeToken(u.ID, u.Role, h.secret)
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}
	h.log.Printf("registered %s as %s", u.ID, u.Role)
	return &rpc.RegisterResponse{UserId: u.ID, Token: tok}, nil
}

func (h *Handler) Login(ctx context.Context, req *rpc.LoginRequest) (*rpc.LoginResponse, error) {
	if err := h.check(req); err != nil {
		return nil, err
	}

	u, err := h.users.UserByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, "invalid credentials")
	}
	// synced accounts have no local password
	if u.PasswordHash == "" || !auth.CheckPassword(u.PasswordHash, req.Password) {
		return nil, status.Error(codes.Unauthenticated, "invalid credentials")
	}

	tok, err := auth.MakeToken(u.ID, u.Role, h.secret)
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}
	return &rpc.LoginResponse{Token: tok, UserId: u.ID, Name: u.Name, Role: u.Role}, nil
}
