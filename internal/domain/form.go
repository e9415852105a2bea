package domain

import (
	"io"
	"time"
)

// FileOpener открывает содержимое файла для потоковой отправки
type FileOpener func() (io.ReadCloser, error)

// FileUpload - файл, полученный из формы пользователя
type FileUpload struct {
	Filename string
	Open     FileOpener
}

// FormField - одна часть multipart-формы
type FormField struct {
	Name     string
	Value    string
	Filename string
	Open     FileOpener
}

// IsFile сообщает, что поле передается как файл
func (f FormField) IsFile() bool {
	return f.Open != nil
}

// FormPayload реализуют запросы, отправляемые как multipart/form-data
type FormPayload interface {
	FormFields() []FormField
}

// TextField создает текстовое поле
func TextField(name, value string) FormField {
	return FormField{Name: name, Value: value}
}

// DateField создает поле с датой в длинном формате
func DateField(name string, t time.Time) FormField {
	return FormField{Name: name, Value: t.Format(LongDateLayout)}
}

// FileField создает файловое поле
func FileField(name string, file *FileUpload) FormField {
	return FormField{Name: name, Filename: file.Filename, Open: file.Open}
}
