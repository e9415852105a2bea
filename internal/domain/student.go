package domain

import (
	"strconv"
	"time"
)

// StudentListItemGetResponse - строка списка студентов
type StudentListItemGetResponse struct {
	ID        int     `json:"id"`
	FullName  string  `json:"fullName"`
	GroupName string  `json:"groupName"`
	Point     float64 `json:"point"`
	FileName  string  `json:"fileName"`
}

// StudentGetResponse - данные студента для формы редактирования
type StudentGetResponse struct {
	ID        int     `json:"id"`
	FullName  string  `json:"fullName"`
	GroupID   int     `json:"groupId"`
	Point     float64 `json:"point"`
	BirthDate Date    `json:"birthDate"`
	FileName  string  `json:"fileName"`
}

// StudentCreateRequest - данные формы студента
type StudentCreateRequest struct {
	FullName  string      `form:"FullName" validate:"required,max=50"`
	GroupID   int         `form:"GroupId" validate:"required,gt=0"`
	Point     float64     `form:"Point" validate:"gte=0,lte=100"`
	BirthDate time.Time   `form:"BirthDate" validate:"required"`
	File      *FileUpload `form:"File" validate:"-"`
}

// FormFields перечисляет части формы в порядке полей запроса
func (r *StudentCreateRequest) FormFields() []FormField {
	fields := []FormField{
		TextField("FullName", r.FullName),
		TextField("GroupId", strconv.Itoa(r.GroupID)),
		TextField("Point", strconv.FormatFloat(r.Point, 'f', -1, 64)),
	}
	if !r.BirthDate.IsZero() {
		fields = append(fields, DateField("BirthDate", r.BirthDate))
	}
	if r.File != nil && r.File.Open != nil {
		fields = append(fields, FileField("File", r.File))
	}
	return fields
}

// StudentCreateRequestFrom заполняет форму данными студента
func StudentCreateRequestFrom(s *StudentGetResponse) *StudentCreateRequest {
	return &StudentCreateRequest{
		FullName:  s.FullName,
		GroupID:   s.GroupID,
		Point:     s.Point,
		BirthDate: s.BirthDate.Time,
	}
}
