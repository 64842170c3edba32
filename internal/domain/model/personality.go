package model

// PersonalityType описывает тип личности, к которому привязаны варианты ответов
type PersonalityType struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`       // Короткое имя, например "Аналитик"
	ShortName       string `json:"short_name"` // Название для карточки, например [ АНАЛИТИК ]
	Slogan          string `json:"slogan"`
	FullName        string `json:"full_name"`
	Description     string `json:"description"`
	Strengths       string `json:"strengths"`
	Sphere          string `json:"sphere"`
	Recommendations string `json:"recommendations"`
	ImagePath       string `json:"image_path"`
}
