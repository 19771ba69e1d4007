package handler

import (
	"embed"
	"html/template"
	"net/http"

	"ordinance-go/internal/controller"
	"ordinance-go/internal/middleware"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

// NewRouter 组装本地 Web 界面的路由，并把 hub 注册为控制器的观察者。
func NewRouter(ctrl *controller.Controller, hub *StatusHub) *gin.Engine {
	ctrl.Observe(hub.Publish)

	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery())
	r.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))

	ui := NewUIHandler(ctrl)
	r.GET("/", ui.Index)
	r.GET("/state", ui.State)
	r.POST("/events/:name", ui.Event)
	r.GET("/ws/status", hub.Handle)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "statusClients": hub.Clients()})
	})
	return r
}
