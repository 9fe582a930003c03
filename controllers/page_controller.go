// Package controllers file: controllers/page_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
	"mergington-activities/logger"
	"mergington-activities/middleware"
	"mergington-activities/services"
	"mergington-activities/websocket"
)

// qrCodeSize is the edge length of the QR code PNG in pixels.
const qrCodeSize = 300

// PageController serves the activities page and its live updates.
type PageController struct {
	Client         *services.ActivityClient
	Pages          *services.PageRegistry
	Hub            *websocket.Hub
	ApplicationURL string
	WebsocketURL   string
	QREncoder      services.QRCodeEncoder
}

// NewPageController creates an instance of PageController
func NewPageController(client *services.ActivityClient, pages *services.PageRegistry, hub *websocket.Hub, appURL, wsURL string) *PageController {
	logger.Debug.Printf("NewPageController: appURL=%s wsURL=%s", appURL, wsURL)
	return &PageController{
		Client:         client,
		Pages:          pages,
		Hub:            hub,
		ApplicationURL: appURL,
		WebsocketURL:   wsURL,
		QREncoder:      qrcode.Encode,
	}
}

// Health reports liveness.
func Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// Index is a page load: fetch the activities fresh and render them.
func (pc *PageController) Index(c *gin.Context) {
	page := pc.page(c)
	pc.Client.ListActivities(c.Request.Context(), page)
	pc.render(c, page)
}

// State returns the session page as JSON without fetching.
func (pc *PageController) State(c *gin.Context) {
	c.JSON(http.StatusOK, pc.page(c).View())
}

// PageUpdates upgrades to a websocket that receives this page's live events.
func (pc *PageController) PageUpdates(c *gin.Context) {
	pc.Hub.ServeWs(c.Writer, c.Request, middleware.PageID(c))
}

// GetQRCode displays a QR code for the application URL
func (pc *PageController) GetQRCode(c *gin.Context) {
	png, err := services.GenerateQRCode(pc.ApplicationURL, qrCodeSize, pc.QREncoder)
	if err != nil {
		logger.Error.Printf("GetQRCode: Error generating QR code: %v", err)
		c.String(http.StatusInternalServerError, "QR generation failed")
		return
	}

	c.Header("Content-Disposition", "inline; filename=\"qrcode.png\"")
	c.Data(http.StatusOK, "image/png", png)
}

func (pc *PageController) page(c *gin.Context) *services.Page {
	return pc.Pages.Get(middleware.PageID(c))
}

func (pc *PageController) render(c *gin.Context, page *services.Page) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Page":         page.View(),
		"WebsocketURL": pc.WebsocketURL,
	})
}
