package model

import "time"

// Category groups catalog projects; name is tri-locale like every content entity.
type Category struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	NameRu string `json:"name_ru,omitempty"`
	NameEn string `json:"name_en,omitempty"`
	Image  string `json:"image,omitempty"`
	Order  int    `json:"order,omitempty"`
}

// Banner is a carousel slide managed from the admin panel.
type Banner struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	TitleRu string `json:"title_ru,omitempty"`
	TitleEn string `json:"title_en,omitempty"`
	Image   string `json:"image"`
	Link    string `json:"link,omitempty"`
	Active  bool   `json:"active"`
}

// FAQ is a question/answer pair managed from the admin panel.
type FAQ struct {
	ID         int64  `json:"id"`
	Question   string `json:"question"`
	QuestionRu string `json:"question_ru,omitempty"`
	QuestionEn string `json:"question_en,omitempty"`
	Answer     string `json:"answer"`
	AnswerRu   string `json:"answer_ru,omitempty"`
	AnswerEn   string `json:"answer_en,omitempty"`
}

// Contact is a support/office contact entry managed from the admin panel.
type Contact struct {
	ID        int64  `json:"id"`
	Label     string `json:"label"`
	LabelRu   string `json:"label_ru,omitempty"`
	LabelEn   string `json:"label_en,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
	Address   string `json:"address,omitempty"`
	AddressRu string `json:"address_ru,omitempty"`
	AddressEn string `json:"address_en,omitempty"`
}

// Notification is a backend announcement; acknowledgement is tracked locally.
type Notification struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	TitleRu   string    `json:"title_ru,omitempty"`
	TitleEn   string    `json:"title_en,omitempty"`
	Body      string    `json:"body,omitempty"`
	BodyRu    string    `json:"body_ru,omitempty"`
	BodyEn    string    `json:"body_en,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
