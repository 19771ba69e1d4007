package handler

import (
	"html/template"

	"ordinance-go/internal/controller"
	"ordinance-go/internal/help"
)

// StateView 是发给浏览器的界面状态。JSON 中不包含 API 密钥本身。
type StateView struct {
	Query        string        `json:"query"`
	Status       string        `json:"status"`
	Progress     int           `json:"progress"`
	ResultHTML   template.HTML `json:"resultHtml"`
	ModalOpen    bool          `json:"modalOpen"`
	ModalHTML    template.HTML `json:"modalHtml"`
	SelectedFile string        `json:"selectedFile"`
	HasGeminiKey bool          `json:"hasGeminiKey"`
	HasOpenAIKey bool          `json:"hasOpenaiKey"`
	Alert        string        `json:"alert"`
	LastDownload string        `json:"lastDownload"`
	Providers    []string      `json:"providers"`

	// 仅用于回填页面上的密钥输入框，不进入 JSON
	GeminiKey string `json:"-"`
	OpenAIKey string `json:"-"`
}

// NewStateView 把控制器状态转换为视图。ResultHTML 与 ModalHTML 已由渲染器清洗。
func NewStateView(s controller.State) StateView {
	providers := make([]string, 0, 2)
	for _, p := range help.Providers() {
		providers = append(providers, string(p))
	}
	return StateView{
		Query:        s.Query,
		Status:       s.Status,
		Progress:     s.Progress,
		ResultHTML:   template.HTML(s.ResultHTML),
		ModalOpen:    s.Modal == controller.ModalOpen,
		ModalHTML:    template.HTML(s.ModalHTML),
		SelectedFile: s.SelectedFileName(),
		HasGeminiKey: s.GeminiKey != "",
		HasOpenAIKey: s.OpenAIKey != "",
		Alert:        s.Alert,
		LastDownload: s.LastDownload,
		Providers:    providers,
		GeminiKey:    s.GeminiKey,
		OpenAIKey:    s.OpenAIKey,
	}
}
