package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/svtitarenk/api-library/initializers"
	"github.com/svtitarenk/api-library/internals/controllers"
	"github.com/svtitarenk/api-library/internals/middleware"
	logger "github.com/svtitarenk/api-library/loggers"
)

func main() {
	logger.Logger.Info("welcome to the library lending api")

	r := gin.Default()
	r.GET("/", hello)
	r.POST("/signup", controllers.SignUp)
	r.POST("/login", controllers.LoginUser)
	r.GET("/validate", middleware.AuthenticateMiddleware, controllers.Validate)

	api := r.Group("/api")
	api.Use(middleware.AuthenticateMiddleware)
	{
		api.GET("/authors", controllers.GetAllAuthors)
		api.POST("/authors", controllers.CreateAuthor)
		api.GET("/authors/:id", controllers.GetAuthorById)
		api.PUT("/authors/:id", controllers.UpdateAuthor)
		api.PATCH("/authors/:id", controllers.UpdateAuthor)
		api.DELETE("/authors/:id", controllers.DeleteAuthor)

		api.GET("/books", controllers.GetAllBooks)
		api.POST("/books", controllers.CreateBook)
		api.GET("/books/:id", controllers.GetBookById)
		api.PUT("/books/:id", controllers.UpdateBook)
		api.PATCH("/books/:id", controllers.UpdateBook)
		api.DELETE("/books/:id", controllers.DeleteBook)

		api.GET("/book-issues", controllers.GetAllIssues)
		api.POST("/book-issues", controllers.CreateIssue)
		api.GET("/book-issues/:id", controllers.GetIssueById)
		api.PUT("/book-issues/:id", controllers.UpdateIssue)
		api.PATCH("/book-issues/:id", controllers.UpdateIssue)
		api.DELETE("/book-issues/:id", controllers.DeleteIssue)

		api.GET("/users/me", controllers.Me)
	}
	r.Run()
}

func hello(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "welcome to the library lending api",
	})
}

func init() {
	Startup()
	initializers.LoadEnvVariables()
	initializers.ConnectDatabase()
	initializers.ConnectRedis()

	// synchronize database tables with the models
	if err := initializers.SyncDatabase(); err != nil {
		logger.Logger.Error("failed to sync database schema : ", err)
	}
}

func Startup() {
	logger.Init()
}
