package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/campus-records-api/pkg/errors"
)

// Fields holds the top-level keys rendered next to the success flag.
type Fields map[string]interface{}

// ErrorBody is the failure contract shared by every endpoint.
type ErrorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// JSON sends a success response; every body carries "success": true.
func JSON(c *gin.Context, status int, fields Fields) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	body := gin.H{"success": true}
	for k, v := range fields {
		if k == "success" {
			continue
		}
		body[k] = v
	}
	c.JSON(status, body)
}

// OK responds with HTTP 200.
func OK(c *gin.Context, fields Fields) {
	JSON(c, http.StatusOK, fields)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, fields Fields) {
	JSON(c, http.StatusCreated, fields)
}

// Message responds with HTTP 200 and a single message field.
func Message(c *gin.Context, message string) {
	JSON(c, http.StatusOK, Fields{"message": message})
}

// Error converts the error to the common failure structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(appErr.Status, ErrorBody{Success: false, Message: appErr.Message, Error: appErr.Code})
}
