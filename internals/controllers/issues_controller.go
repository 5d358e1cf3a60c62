package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/svtitarenk/api-library/initializers"
	"github.com/svtitarenk/api-library/internals/models"
	"github.com/svtitarenk/api-library/internals/repository"
	"github.com/svtitarenk/api-library/internals/service"
)

type BookIssueResponse struct {
	Id         uint         `json:"id"`
	Book       uint         `json:"book"`
	BookTitle  string       `json:"book_title"`
	User       uint         `json:"user"`
	UserEmail  string       `json:"user_email"`
	IssueDate  models.Date  `json:"issue_date"`
	ReturnDate *models.Date `json:"return_date"`
	IsReturned bool         `json:"is_returned"`
	Rating     *int         `json:"rating"`
}

// CreateIssue checks a book out to a user. The issue date is stamped
// server-side and the entry starts unreturned.
func CreateIssue(c *gin.Context) {
	var input service.CreateIssueInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	issue, err := service.NewLendingService(initializers.DB).CreateIssue(input)
	if err != nil {
		// unknown book/user ids in the payload are a validation problem
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "book or user does not exist"})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, convertIssueToResponse(issue))
}

// UpdateIssue is the return/rating transition. Supplying a return_date on
// an unreturned issue flips it to returned and updates the borrower's
// lending totals exactly once; a rating is stored whenever present.
func UpdateIssue(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input service.UpdateIssueInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	issue, err := service.NewLendingService(initializers.DB).UpdateIssue(id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, convertIssueToResponse(issue))
}

func GetAllIssues(c *gin.Context) {
	issues, err := repository.NewBookIssueRepository(initializers.DB).FindAll()
	if err != nil {
		respondError(c, err)
		return
	}
	response := make([]*BookIssueResponse, 0, len(issues))
	for i := range issues {
		response = append(response, convertIssueToResponse(&issues[i]))
	}
	c.JSON(http.StatusOK, response)
}

func GetIssueById(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	issue, err := repository.NewBookIssueRepository(initializers.DB).FindById(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, convertIssueToResponse(issue))
}

func DeleteIssue(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := repository.NewBookIssueRepository(initializers.DB).Delete(id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func convertIssueToResponse(issue *models.BookIssue) *BookIssueResponse {
	return &BookIssueResponse{
		Id:         issue.Id,
		Book:       issue.BookId,
		BookTitle:  issue.Book.Title,
		User:       issue.UserId,
		UserEmail:  issue.User.Email,
		IssueDate:  issue.IssueDate,
		ReturnDate: issue.ReturnDate,
		IsReturned: issue.IsReturned,
		Rating:     issue.Rating,
	}
}
