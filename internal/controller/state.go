package controller

import "ordinance-go/internal/model"

// ModalState 是帮助弹窗的两种状态。
type ModalState int

const (
	ModalClosed ModalState = iota
	ModalOpen
)

// ModalOverlayTarget 是弹窗遮罩层的标识，点击它等同于点击弹窗外部。
const ModalOverlayTarget = "helpModal"

// State 是界面的全部可变状态。控制器持有唯一一份，对外只暴露副本。
type State struct {
	Query     string
	GeminiKey string
	OpenAIKey string
	// SelectedFile 为最近一次选择的 PDF，比较分析使用它
	SelectedFile *model.Attachment

	Status   string
	Progress int

	// ResultHTML 是结果面板的内容；Results 是最近一次渲染的检索结果
	ResultHTML string
	Results    []model.SearchResult

	Modal     ModalState
	ModalHTML string

	// Alert 是最近一次阻塞式提示，下一次事件派发时清空
	Alert string
	// LastDownload 是最近一次下载的保存位置
	LastDownload string
}

// SelectedFileName 返回已选文件名，未选择时为空。
func (s State) SelectedFileName() string {
	if s.SelectedFile == nil {
		return ""
	}
	return s.SelectedFile.Name
}

// HasAPIKey 判断是否至少填写了一个 API 密钥。
func (s State) HasAPIKey() bool {
	return s.GeminiKey != "" || s.OpenAIKey != ""
}

func (s State) clone() State {
	out := s
	if s.Results != nil {
		out.Results = append([]model.SearchResult(nil), s.Results...)
	}
	return out
}
