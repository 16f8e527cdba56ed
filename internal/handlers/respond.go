package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/thereayou/roomboard/internal/apperr"
	"github.com/thereayou/roomboard/internal/middleware"
)

// respondError writes {"error": msg} with the status for err's kind.
func respondError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("request_id=%s route=%s error=%v", c.GetString(middleware.RequestIDKey), c.FullPath(), err)
	}
	c.JSON(status, gin.H{"error": apperr.Message(err)})
}

// redirect answers a successful POST the way a browser form expects.
func redirect(c *gin.Context, path string) {
	c.Header("Location", path)
	c.JSON(http.StatusSeeOther, gin.H{"redirect": path})
}

func paramID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, apperr.ErrNotFound)
		return uuid.Nil, false
	}
	return id, true
}

// bind fills form from the request body, answering 400 on failure.
func bind(c *gin.Context, form interface{}) bool {
	if err := c.ShouldBind(form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

func currentUser(c *gin.Context) uuid.UUID {
	return c.MustGet(middleware.UserIDKey).(uuid.UUID)
}
