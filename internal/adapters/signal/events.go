package signal

import (
	"github.com/go-playground/validator/v10"

	"github.com/user/planningpoker/internal/domain"
)

var validate = validator.New()

type joinRoomPayload struct {
	RoomID   string `json:"roomId" validate:"required"`
	UserName string `json:"userName" validate:"required"`
	UserID   string `json:"userId" validate:"required"`
}

type submitEstimatePayload struct {
	RoomID string `json:"roomId" validate:"required"`
	UserID string `json:"userId" validate:"required"`
	// Estimate rejects off-scale values during unmarshal.
	Estimate *domain.Estimate `json:"estimate" validate:"required"`
}

type roomPayload struct {
	RoomID string `json:"roomId" validate:"required"`
}
