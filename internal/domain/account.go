package domain

// LoginRequest - учетные данные пользователя
type LoginRequest struct {
	UserName string `json:"userName" form:"UserName" validate:"required"`
	Password string `json:"password" form:"Password" validate:"required"`
}

// LoginResponse - ответ API на вход
type LoginResponse struct {
	Token string `json:"token"`
}
