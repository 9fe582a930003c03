// Package controllers file: controllers/activity_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"mergington-activities/logger"
	"mergington-activities/services"
)

// Signup handles the signup form. The page is rendered in place so a
// rejected signup keeps what the user typed.
func (pc *PageController) Signup(c *gin.Context) {
	page := pc.page(c)
	activity := c.PostForm("activity")
	email := c.PostForm("email")

	logger.Info.Printf("Signup: page=%s activity=%q email=%q", page.ID, activity, email)
	_ = pc.Client.Signup(c.Request.Context(), page, activity, email)
	pc.render(c, page)
}

// RemoveParticipant is the single handler behind the activities list. Every
// participant's remove button submits the same form; the pressed button's
// value names the activity and email it was rendered for.
func (pc *PageController) RemoveParticipant(c *gin.Context) {
	page := pc.page(c)

	row, err := services.ParseRemoveValue(c.PostForm("remove"))
	if err != nil {
		logger.Warn.Printf("RemoveParticipant: page=%s invalid target: %v", page.ID, err)
		c.String(http.StatusBadRequest, "Invalid removal target")
		return
	}

	logger.Info.Printf("RemoveParticipant: page=%s activity=%q email=%q", page.ID, row.Activity, row.Email)
	_ = pc.Client.RemoveParticipant(c.Request.Context(), page, row.Activity, row.Email)
	pc.render(c, page)
}
