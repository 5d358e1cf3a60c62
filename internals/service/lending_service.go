package service

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/svtitarenk/api-library/internals/models"
	"github.com/svtitarenk/api-library/internals/repository"
)

// ErrReturnBeforeIssue rejects return dates earlier than the issue date.
var ErrReturnBeforeIssue = errors.New("return_date cannot be earlier than issue_date")

type CreateIssueInput struct {
	BookId uint `json:"book" binding:"required"`
	UserId uint `json:"user" binding:"required"`
}

// UpdateIssueInput drives the return transition. A return_date flips the
// issue to returned (once); a rating is stored whenever present, with or
// without a return in the same request.
type UpdateIssueInput struct {
	ReturnDate *models.Date `json:"return_date"`
	Rating     *int         `json:"rating" binding:"omitempty,min=1,max=5"`
}

type LendingService interface {
	CreateIssue(input CreateIssueInput) (*models.BookIssue, error)
	UpdateIssue(id uint, input UpdateIssueInput) (*models.BookIssue, error)
}

type lendingService struct {
	db *gorm.DB
}

func NewLendingService(db *gorm.DB) LendingService {
	return &lendingService{db: db}
}

// CreateIssue opens a ledger entry for a checkout. The issue date is
// stamped with today, the entry starts unreturned.
func (s *lendingService) CreateIssue(input CreateIssueInput) (*models.BookIssue, error) {
	var created models.BookIssue
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := repository.NewBookRepository(tx).FindById(input.BookId); err != nil {
			return errors.Wrap(err, "book")
		}
		if _, err := repository.NewUserRepository(tx).FindById(input.UserId); err != nil {
			return errors.Wrap(err, "user")
		}
		created = models.BookIssue{
			BookId: input.BookId,
			UserId: input.UserId,
		}
		return repository.NewBookIssueRepository(tx).Create(&created)
	})
	if err != nil {
		return nil, err
	}
	return repository.NewBookIssueRepository(s.db).FindById(created.Id)
}

// UpdateIssue runs the return transition inside a single transaction.
// The flip to returned is a conditional update that only matches while the
// issue is still unreturned, and the user's lending totals are incremented
// only when that update changed a row. Resubmitting a return is therefore
// a no-op on the totals, and two concurrent returns of the same issue
// count once.
func (s *lendingService) UpdateIssue(id uint, input UpdateIssueInput) (*models.BookIssue, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		issues := repository.NewBookIssueRepository(tx)
		issue, err := issues.FindById(id)
		if err != nil {
			return err
		}

		if input.ReturnDate != nil {
			if input.ReturnDate.Time.Before(issue.IssueDate.Time) {
				return ErrReturnBeforeIssue
			}
			returned, err := issues.MarkReturned(id, *input.ReturnDate)
			if err != nil {
				return err
			}
			if returned {
				days := daysHeld(issue.IssueDate, *input.ReturnDate)
				err := repository.NewUserRepository(tx).AddLendingTotals(issue.UserId, 1, uint(days))
				if err != nil {
					return errors.Wrap(err, "updating lending totals")
				}
			}
		}

		if input.Rating != nil {
			if err := issues.SetRating(id, *input.Rating); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return repository.NewBookIssueRepository(s.db).FindById(id)
}

// daysHeld floors at 1 so a same-day return still counts as one day.
func daysHeld(issued, returned models.Date) int {
	days := returned.DaysSince(issued)
	if days < 1 {
		return 1
	}
	return days
}
