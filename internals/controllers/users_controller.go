package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/svtitarenk/api-library/initializers"
	"github.com/svtitarenk/api-library/internals/repository"
)

type UserResponse struct {
	Id                 uint   `json:"id"`
	Email              string `json:"email"`
	FirstName          string `json:"first_name"`
	LastName           string `json:"last_name"`
	Phone              string `json:"phone"`
	TotalBooksTaken    uint   `json:"total_books_taken"`
	TotalDaysHeldBooks uint   `json:"total_days_held_books"`
}

// Me returns the authenticated caller's profile including the running
// lending totals maintained by the return transition.
func Me(c *gin.Context) {
	user, err := repository.NewUserRepository(initializers.DB).FindByEmail(c.GetString("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, &UserResponse{
		Id:                 user.Id,
		Email:              user.Email,
		FirstName:          user.FirstName,
		LastName:           user.LastName,
		Phone:              user.Phone,
		TotalBooksTaken:    user.TotalBooksTaken,
		TotalDaysHeldBooks: user.TotalDaysHeldBooks,
	})
}

func Validate(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": c.GetString("email") + " is logged in",
	})
}
