package domain

// ErrorItem - ошибка отдельного поля
type ErrorItem struct {
	Key     string `json:"key"`
	Message string `json:"message"`
}

// ErrorResponse - тело ответа API с ошибкой
type ErrorResponse struct {
	Message string      `json:"message"`
	Errors  []ErrorItem `json:"errors"`
}

// CreateResponse - ответ API на создание ресурса
type CreateResponse struct {
	ID int `json:"id"`
}
