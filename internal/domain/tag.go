package domain

const DefaultTagColor = "#3498db"

// Tag names are unique per owner, not globally.
type Tag struct {
	ID    int64  `json:"id" gorm:"primaryKey"`
	Name  string `json:"name" gorm:"size:50;not null;uniqueIndex:idx_tags_user_name"`
	Color string `json:"color" gorm:"size:7;default:#3498db"`

	UserID int64 `json:"user_id" gorm:"not null;uniqueIndex:idx_tags_user_name"`
	User   User  `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
