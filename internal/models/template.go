package models

// Template is a recurring expense used to fill a month.
type Template struct {
	Base
	UserID  string     `gorm:"type:uuid;not null;index" json:"user_id"`
	Name    string     `gorm:"not null" json:"name"`
	Amounts AmountList `gorm:"type:text;not null" json:"amounts" swaggertype:"array,object"`
	DueDay  int        `gorm:"not null" json:"due_day"`
	Notes   string     `json:"notes,omitempty"`
}

// TemplateGroup bundles templates applied together.
type TemplateGroup struct {
	Base
	UserID      string `gorm:"type:uuid;not null;index" json:"user_id"`
	Name        string `gorm:"not null" json:"name"`
	TemplateIDs IDList `gorm:"type:text;not null" json:"template_ids" swaggertype:"array,string"`
}
