// Package render 把检索结果、帮助文本和提示消息渲染为结果面板使用的 HTML 片段。
package render

import (
	"html"
	"regexp"
	"strings"

	"ordinance-go/internal/model"

	"github.com/microcosm-cc/bluemonday"
)

// 面板中固定的提示文本。
const (
	EmptyStateText = "검색 결과가 없습니다."
	NoArticleText  = "(조문 없음)"
	ErrorPrefix    = "오류가 발생했습니다: "
)

// Renderer 生成 HTML 片段，并用白名单策略做最终清洗。
type Renderer struct {
	policy *bluemonday.Policy
}

// NewRenderer 创建一个 Renderer。只允许面板用到的标签和 class 属性。
func NewRenderer() *Renderer {
	p := bluemonday.NewPolicy()
	p.AllowElements("div", "span", "p", "br")
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^[a-z0-9\- ]+$`)).OnElements("div", "span", "p")
	return &Renderer{policy: p}
}

// Results 渲染检索结果。结果为空时只输出空状态提示。
func (r *Renderer) Results(resp *model.SearchResponse) string {
	if resp == nil || len(resp.Results) == 0 {
		return r.EmptyState()
	}

	var b strings.Builder
	for _, result := range resp.Results {
		b.WriteString(`<div class="result-item mb-8">`)
		b.WriteString(`<div class="mb-2"><span class="font-bold text-red-600 text-lg">`)
		b.WriteString(html.EscapeString(result.Name))
		b.WriteString(`</span></div><div>`)

		blocks := result.Content.Blocks()
		if len(blocks) == 0 {
			b.WriteString(`<div class="law-article text-gray-500">`)
			b.WriteString(NoArticleText)
			b.WriteString(`</div>`)
		}
		for _, article := range blocks {
			b.WriteString(`<div class="law-article text-black">`)
			b.WriteString(withLineBreaks(article))
			b.WriteString(`</div>`)
		}
		b.WriteString(`</div></div>`)
	}
	return r.policy.Sanitize(b.String())
}

// EmptyState 返回空结果提示。
func (r *Renderer) EmptyState() string {
	return "<p>" + EmptyStateText + "</p>"
}

// Error 渲染内联错误块。
func (r *Renderer) Error(msg string) string {
	return r.policy.Sanitize(`<p class="error">` + html.EscapeString(ErrorPrefix+msg) + `</p>`)
}

// Success 渲染成功提示块。
func (r *Renderer) Success(msg string) string {
	return r.policy.Sanitize(`<p class="success">` + html.EscapeString(msg) + `</p>`)
}

// Help 渲染帮助文本，保留换行。
func (r *Renderer) Help(text string) string {
	return r.policy.Sanitize(withLineBreaks(text))
}

func withLineBreaks(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(html.EscapeString(s), "\n", "<br>")
}
