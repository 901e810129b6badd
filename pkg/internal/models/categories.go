package models

type Category struct {
	BaseModel

	Alias string `json:"alias" gorm:"uniqueIndex" validate:"lowercase"`
	Name  string `json:"name"`
	Posts []Post `json:"posts" gorm:"many2many:post_categories"`
}
