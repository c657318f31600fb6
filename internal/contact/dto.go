package contact

import (
	"time"

	"github.com/google/uuid"

	"github.com/poultrygear/poultrygear-backend/pkg/db/models"
	"github.com/poultrygear/poultrygear-backend/pkg/enums"
)

// CreateRequest is a public contact form submission.
type CreateRequest struct {
	Name    string  `json:"name" validate:"required,max=150"`
	Email   string  `json:"email" validate:"required,email,max=255"`
	Phone   *string `json:"phone" validate:"omitempty,max=30"`
	Subject *string `json:"subject" validate:"omitempty,max=255"`
	Message string  `json:"message" validate:"required,max=5000"`
}

// UpdateStatusRequest moves a message through the triage lifecycle.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new read replied archived"`
}

// MessageResponse is the admin view of a submission.
type MessageResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	Subject   *string   `json:"subject,omitempty"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ListResponse is a cursor page of messages.
type ListResponse struct {
	Messages   []MessageResponse `json:"messages"`
	NextCursor string            `json:"nextCursor,omitempty"`
}

func (r CreateRequest) ToModel() *models.ContactMessage {
	return &models.ContactMessage{
		Name:    r.Name,
		Email:   r.Email,
		Phone:   r.Phone,
		Subject: r.Subject,
		Message: r.Message,
		Status:  enums.ContactMessageStatusNew,
	}
}

func NewMessageResponse(row *models.ContactMessage) *MessageResponse {
	return &MessageResponse{
		ID:        row.ID,
		Name:      row.Name,
		Email:     row.Email,
		Phone:     row.Phone,
		Subject:   row.Subject,
		Message:   row.Message,
		Status:    row.Status.String(),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
