package request

type UpdateEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}
