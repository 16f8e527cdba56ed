package dto

type RegisterRequest struct {
	Username string `form:"username" json:"username" binding:"required,max=150"`
	Password string `form:"password" json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}
