package model

// Category groups products in a tree; ParentID is nil for roots.
type Category struct {
	BaseModel
	Name          string     `gorm:"type:varchar(100);not null" json:"name" validate:"required,max=100"`
	ParentID      *uint      `gorm:"index" json:"parent_id"`
	Subcategories []Category `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE" json:"subcategories,omitempty"`
}

// TableName specifies the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// CategoryNode is a category with its resolved children, used for tree views.
type CategoryNode struct {
	ID       uint            `json:"id"`
	Name     string          `json:"name"`
	Path     string          `json:"path"`
	ParentID *uint           `json:"parent_id"`
	Children []*CategoryNode `json:"children"`
}
