package models

// BookIssue is one row of the lending ledger: a single book lent to a
// single user. IssueDate is stamped at creation and never changes.
// IsReturned flips to true exactly once, when a return date is accepted.
type BookIssue struct {
	Id         uint        `gorm:"primaryKey;column:id"`
	BookId     uint        `gorm:"column:book_id;not null"`
	Book       Book        `gorm:"foreignKey:BookId"`
	UserId     uint        `gorm:"column:user_id;not null"`
	User       UserProfile `gorm:"foreignKey:UserId"`
	IssueDate  Date        `gorm:"column:issue_date;type:date;not null"`
	ReturnDate *Date       `gorm:"column:return_date;type:date"`
	IsReturned bool        `gorm:"column:is_returned;not null;default:false"`
	Rating     *int        `gorm:"column:rating"`
}
