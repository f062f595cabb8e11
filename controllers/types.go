package controllers

type StandardResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
	Message string      `json:"message,omitempty"`
}

type ListMeta struct {
	Count int `json:"count"`
}

type FriendTargetRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}
