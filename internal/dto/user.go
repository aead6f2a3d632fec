package dto

// RegisterUserRequest is the JSON body for POST /users.
type RegisterUserRequest struct {
	TgID int64  `json:"tg_id" binding:"required"`
	Name string `json:"name" binding:"max=120"`
}

type QuotaResponse struct {
	OK bool `json:"ok"`
}

type AdviceResponse struct {
	Advice string `json:"advice"`
}
