// Package model 定义了客户端与检索服务之间传输的数据结构。
package model

import (
	"bytes"
	"encoding/json"

	"ordinance-go/pkg/log"
)

// ContentKind 区分条例正文的三种形态。
type ContentKind int

const (
	// ContentNone 表示正文缺失（字段不存在或为 null）
	ContentNone ContentKind = iota
	// ContentText 表示正文是一整段文本
	ContentText
	// ContentArticles 表示正文按条文拆分为有序列表
	ContentArticles
)

// Content 是条例正文的标签联合体：后端可能返回字符串，也可能返回字符串数组。
type Content struct {
	Kind     ContentKind
	Text     string
	Articles []string
}

// TextContent 构造单段文本正文。
func TextContent(text string) Content {
	return Content{Kind: ContentText, Text: text}
}

// ArticlesContent 构造按条文拆分的正文。
func ArticlesContent(articles ...string) Content {
	return Content{Kind: ContentArticles, Articles: articles}
}

// IsEmpty 判断正文是否没有可展示的内容。
func (c Content) IsEmpty() bool {
	switch c.Kind {
	case ContentText:
		return c.Text == ""
	case ContentArticles:
		return len(c.Articles) == 0
	default:
		return true
	}
}

// Blocks 返回按展示顺序排列的条文块。单段文本视为一个块。
func (c Content) Blocks() []string {
	switch c.Kind {
	case ContentText:
		if c.Text == "" {
			return nil
		}
		return []string{c.Text}
	case ContentArticles:
		return c.Articles
	default:
		return nil
	}
}

// UnmarshalJSON 在边界处完成类型判别，之后的代码只看 Kind。
func (c *Content) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*c = Content{Kind: ContentNone}
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*c = TextContent(s)
		return nil
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		articles := make([]string, 0, len(items))
		for _, item := range items {
			var s string
			if err := json.Unmarshal(item, &s); err != nil {
				// 非字符串条文按原样展示
				s = string(bytes.TrimSpace(item))
			}
			articles = append(articles, s)
		}
		*c = ArticlesContent(articles...)
		return nil
	default:
		// 数字、对象、布尔值都视为缺失，展示占位文本，不影响同一响应中的其他结果
		log.Warnf("[Model] 无法识别的 content 形态，按缺失处理: %s", string(trimmed))
		*c = Content{Kind: ContentNone}
		return nil
	}
}

// MarshalJSON 按原始形态写回。
func (c Content) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case ContentText:
		return json.Marshal(c.Text)
	case ContentArticles:
		if c.Articles == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(c.Articles)
	default:
		return []byte("null"), nil
	}
}

// SearchResult 是一条命中的条例。
type SearchResult struct {
	Name    string  `json:"name"`
	Content Content `json:"content"`
	// Metro 为所属广域自治团体名称，后端可能不返回
	Metro string `json:"metro,omitempty"`
}

// SearchResponse 对应 /api/search 的成功响应。
type SearchResponse struct {
	Results []SearchResult `json:"results"`
	Total   int            `json:"total,omitempty"`
}

// SearchRequest 是 /api/search 与 /api/save 的 JSON 请求体。
type SearchRequest struct {
	Query string `json:"query"`
}

// UploadResponse 对应 /api/upload 的成功响应。
type UploadResponse struct {
	Message string `json:"message"`
}

// APIError 是后端在非 2xx 状态下返回的错误负载。
type APIError struct {
	Error string `json:"error"`
}
