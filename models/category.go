package models

// Category is one of the fixed project categories a submission is filed under.
// Rows live in the "projects" table and are seeded at migration time.
type Category struct {
	ID   uint   `json:"id" db:"id" gorm:"primaryKey;autoIncrement:false"`
	Name string `json:"name" db:"name" gorm:"type:text;not null"`
}

func (Category) TableName() string {
	return "projects"
}

// DefaultCategories is the seed used when CATEGORIES is not configured.
var DefaultCategories = []Category{
	{ID: 1, Name: "Portfolio"},
	{ID: 2, Name: "Landing page"},
	{ID: 3, Name: "Todo list"},
	{ID: 4, Name: "Weather app"},
	{ID: 5, Name: "E-commerce"},
	{ID: 6, Name: "Blog"},
}
