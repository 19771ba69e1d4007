// Package handler 包含了本地 Web 界面的 HTTP 处理逻辑。
package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"ordinance-go/internal/controller"
	"ordinance-go/internal/help"
	"ordinance-go/internal/model"
	"ordinance-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// maxUploadSize 限制单个 PDF 的大小。
const maxUploadSize = 64 << 20

// UIHandler 把浏览器的表单提交转换为控制器事件。
type UIHandler struct {
	ctrl *controller.Controller
}

// NewUIHandler 创建一个新的 UIHandler 实例。
func NewUIHandler(ctrl *controller.Controller) *UIHandler {
	return &UIHandler{ctrl: ctrl}
}

// Index 渲染当前界面。
func (h *UIHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", NewStateView(h.ctrl.State()))
}

// State 以 JSON 返回当前界面状态。
func (h *UIHandler) State(c *gin.Context) {
	c.JSON(http.StatusOK, NewStateView(h.ctrl.State()))
}

// Event 处理 POST /events/:name。
// 浏览器表单提交后重定向回首页；Accept 为 JSON 时直接返回状态。
func (h *UIHandler) Event(c *gin.Context) {
	ev, err := h.parseEvent(c)
	if err != nil {
		log.Warnf("[UIHandler] 解析事件失败: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的请求负载"})
		return
	}

	// 浏览器断开不取消后端请求，操作总会得到结果
	ctx := context.WithoutCancel(c.Request.Context())
	err = h.ctrl.Dispatch(ctx, ev)
	status := statusFor(err)
	if err != nil && status != http.StatusBadRequest {
		log.Errorf("[UIHandler] 事件 %s 处理失败: %v", ev.Name, err)
	}

	if !wantsJSON(c) {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	body := gin.H{"state": NewStateView(h.ctrl.State())}
	if err != nil {
		body["error"] = err.Error()
	}
	c.JSON(status, body)
}

func (h *UIHandler) parseEvent(c *gin.Context) (controller.Event, error) {
	ev := controller.Event{
		Name:     controller.EventName(c.Param("name")),
		Provider: help.Provider(c.PostForm("provider")),
		Target:   c.PostForm("target"),
	}

	if query, ok := c.GetPostForm("query"); ok {
		ev.Inputs = &controller.Inputs{
			Query:     query,
			GeminiKey: c.PostForm("geminiApiKey"),
			OpenAIKey: c.PostForm("openaiApiKey"),
		}
	}

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("pdf")
		switch {
		case errors.Is(err, http.ErrMissingFile):
		case err != nil:
			return ev, err
		default:
			if fh.Size > maxUploadSize {
				return ev, errors.New("PDF 文件过大")
			}
			f, err := fh.Open()
			if err != nil {
				return ev, err
			}
			defer f.Close()
			data, err := io.ReadAll(f)
			if err != nil {
				return ev, err
			}
			ev.File = &model.Attachment{Name: fh.Filename, Data: data}
		}
	}
	return ev, nil
}

func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case controller.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, controller.ErrUnknownEvent), errors.Is(err, controller.ErrUnknownProvider):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

func wantsJSON(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "application/json")
}
