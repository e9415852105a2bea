package domain

// GroupListItemDetailedGetResponse - строка списка групп
type GroupListItemDetailedGetResponse struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	StudentsCount int    `json:"studentsCount"`
}

// GroupListItemGetResponse - элемент выпадающего списка групп
type GroupListItemGetResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GroupCreateRequest - данные для создания и изменения группы
type GroupCreateRequest struct {
	Name string `json:"name" form:"Name" validate:"required,max=20"`
}
