package controller

import (
	"context"
	"fmt"
	"strings"

	"ordinance-go/internal/help"
	"ordinance-go/internal/model"
)

// EventName 是界面事件的名称。
type EventName string

const (
	EventSearch     EventName = "search"
	EventSave       EventName = "save"
	EventUpload     EventName = "upload"
	EventSelectFile EventName = "select-file"
	EventCompare    EventName = "compare"
	EventHelp       EventName = "help"
	EventCloseModal EventName = "close-modal"
	EventDismiss    EventName = "dismiss"
)

// Inputs 是事件触发时各输入框的值。为 nil 时沿用当前状态。
type Inputs struct {
	Query     string
	GeminiKey string
	OpenAIKey string
}

// Event 是一次用户操作。
type Event struct {
	Name   EventName
	Inputs *Inputs
	// File 用于 upload、select-file 与 compare
	File *model.Attachment
	// Provider 用于 help
	Provider help.Provider
	// Target 用于 dismiss，表示被点击的元素
	Target string
}

// Handler 处理一个事件。
type Handler func(ctx context.Context, ev Event) error

// Handlers 返回事件到处理函数的映射，每个处理函数都可以单独调用。
func (c *Controller) Handlers() map[EventName]Handler {
	return map[EventName]Handler{
		EventSearch: func(ctx context.Context, ev Event) error {
			return c.Search(ctx)
		},
		EventSave: func(ctx context.Context, ev Event) error {
			return c.Save(ctx)
		},
		EventUpload: func(ctx context.Context, ev Event) error {
			return c.Upload(ctx, ev.File)
		},
		EventSelectFile: func(ctx context.Context, ev Event) error {
			return c.SelectFile(ev.File)
		},
		EventCompare: func(ctx context.Context, ev Event) error {
			// 表单里随比较一同提交的 PDF 先记为已选文件
			if ev.File != nil {
				if err := c.SelectFile(ev.File); err != nil {
					return err
				}
			}
			return c.Compare(ctx)
		},
		EventHelp: func(ctx context.Context, ev Event) error {
			return c.ShowAPIHelp(ev.Provider)
		},
		EventCloseModal: func(ctx context.Context, ev Event) error {
			c.CloseModal()
			return nil
		},
		EventDismiss: func(ctx context.Context, ev Event) error {
			c.DismissAt(ev.Target)
			return nil
		},
	}
}

// Dispatch 应用事件携带的输入值，清除上一次提示，然后调用对应处理函数。
func (c *Controller) Dispatch(ctx context.Context, ev Event) error {
	h, ok := c.Handlers()[ev.Name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEvent, ev.Name)
	}

	c.update(func(s *State) {
		s.Alert = ""
		if ev.Inputs != nil {
			s.Query = ev.Inputs.Query
			s.GeminiKey = strings.TrimSpace(ev.Inputs.GeminiKey)
			s.OpenAIKey = strings.TrimSpace(ev.Inputs.OpenAIKey)
		}
	})
	return h(ctx, ev)
}
