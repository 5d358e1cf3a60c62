package models

type Book struct {
	Id            uint   `gorm:"primaryKey;column:id"`
	Title         string `gorm:"column:title;type:varchar(255);not null"`
	Genre         string `gorm:"column:genre;type:varchar(100);not null"`
	PublishedDate *Date  `gorm:"column:published_date;type:date"`
	Description   string `gorm:"column:description;type:text"`

	AuthorId uint   `gorm:"column:author_id;not null"`
	Author   Author `gorm:"foreignKey:AuthorId"`

	// user who registered the book into the catalog
	UserId uint        `gorm:"column:user_id;not null"`
	User   UserProfile `gorm:"foreignKey:UserId"`

	Issues []BookIssue `gorm:"foreignKey:BookId;constraint:OnDelete:CASCADE"`
}
