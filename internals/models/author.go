package models

type Author struct {
	Id        uint   `gorm:"primaryKey;column:id"`
	Name      string `gorm:"column:name;type:varchar(255);not null"`
	BirthDate *Date  `gorm:"column:birth_date;type:date"`
	Biography string `gorm:"column:biography;type:text"`
	Books     []Book `gorm:"foreignKey:AuthorId;constraint:OnDelete:CASCADE"`
}
