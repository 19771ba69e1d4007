// Package controller 实现条例检索界面的控制逻辑：
// 读取输入、调用后端接口、更新状态栏与结果面板、触发下载。
package controller

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"ordinance-go/internal/download"
	"ordinance-go/internal/help"
	"ordinance-go/internal/model"
	"ordinance-go/internal/render"
	"ordinance-go/pkg/log"
	"ordinance-go/pkg/ordinance"
)

// 状态栏与提示文本。
const (
	msgQueryRequired   = "검색어를 입력해주세요."
	msgAPIKeyRequired  = "API 키를 하나 이상 입력해주세요."
	msgPDFRequired     = "PDF 파일을 선택해주세요."
	msgPDFOnly         = "PDF 파일만 업로드 가능합니다."
	msgSearching       = "검색 중..."
	msgSaving          = "검색 결과를 Word 문서로 저장 중..."
	msgSaved           = "Word 문서 저장이 완료되었습니다."
	msgUploading       = "PDF 업로드 중..."
	msgUploaded        = "PDF 업로드 완료!"
	msgComparing       = "비교 분석을 시작합니다...잠시만 기다려주세요"
	msgCompared        = "비교 분석이 완료되었습니다."
	fallbackSearchErr  = "검색 실패"
	fallbackSaveErr    = "저장 중 오류가 발생했습니다."
	fallbackUploadErr  = "업로드 실패"
	fallbackCompareErr = "비교 분석 중 오류가 발생했습니다."
)

// Prompter 展示阻塞式提示（浏览器中的 alert）。
type Prompter interface {
	Alert(msg string)
}

// Observer 在每次状态变更后收到一份状态副本。
type Observer func(State)

// Controller 持有界面状态并处理用户操作。
// 操作之间不去重也不排队：并发操作按完成顺序覆盖状态栏与结果面板。
type Controller struct {
	api      ordinance.API
	sink     download.Sink
	renderer *render.Renderer
	prompter Prompter
	now      func() time.Time

	mu        sync.Mutex
	state     State
	observers []Observer
}

// Option 用于定制 Controller。
type Option func(*Controller)

// WithPrompter 设置阻塞式提示的展示方式。
func WithPrompter(p Prompter) Option {
	return func(c *Controller) { c.prompter = p }
}

// WithClock 替换时间来源，用于生成下载文件名。
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithRenderer 替换 HTML 渲染器。
func WithRenderer(r *render.Renderer) Option {
	return func(c *Controller) { c.renderer = r }
}

// New 创建一个新的 Controller。
func New(api ordinance.API, sink download.Sink, opts ...Option) *Controller {
	c := &Controller{
		api:      api,
		sink:     sink,
		renderer: render.NewRenderer(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Observe 注册状态观察者。
func (c *Controller) Observe(o Observer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, o)
}

// State 返回当前状态的副本。
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// update 在锁内修改状态，然后在锁外通知观察者。
func (c *Controller) update(fn func(s *State)) {
	c.mu.Lock()
	fn(&c.state)
	snapshot := c.state.clone()
	observers := append([]Observer(nil), c.observers...)
	c.mu.Unlock()

	for _, o := range observers {
		o(snapshot)
	}
}

func (c *Controller) setStatus(msg string, progress int) {
	c.update(func(s *State) {
		s.Status = msg
		s.Progress = progress
	})
}

func (c *Controller) alert(op, msg string) error {
	c.update(func(s *State) { s.Alert = msg })
	if c.prompter != nil {
		c.prompter.Alert(msg)
	}
	log.Warnf("[Controller] %s 输入校验失败: %s", op, msg)
	return &ValidationError{Op: op, Message: msg}
}

// SetQuery 更新检索框内容。
func (c *Controller) SetQuery(query string) {
	c.update(func(s *State) { s.Query = query })
}

// SetAPIKeys 更新两个 API 密钥输入框。
func (c *Controller) SetAPIKeys(gemini, openai string) {
	c.update(func(s *State) {
		s.GeminiKey = strings.TrimSpace(gemini)
		s.OpenAIKey = strings.TrimSpace(openai)
	})
}

// SelectFile 记录用户选择的 PDF。nil 表示取消选择，不做任何事。
func (c *Controller) SelectFile(file *model.Attachment) error {
	if file == nil {
		return nil
	}
	if !file.IsPDF() {
		return c.alert("select-file", msgPDFOnly)
	}
	c.update(func(s *State) {
		s.SelectedFile = file
		s.Status = fmt.Sprintf("PDF 파일이 선택되었습니다: %s", file.Name)
		s.Progress = 0
	})
	return nil
}

// Search 以检索框内容调用 /api/search 并渲染结果。
func (c *Controller) Search(ctx context.Context) error {
	query := strings.TrimSpace(c.State().Query)
	if query == "" {
		c.update(func(s *State) { s.Status = msgQueryRequired })
		return &ValidationError{Op: "search", Message: msgQueryRequired}
	}

	c.setStatus(msgSearching, 0)
	log.Infof("[Controller] 开始检索, query: '%s'", query)

	resp, err := c.api.Search(ctx, query)
	if err != nil {
		msg := ordinance.UserMessage(err, fallbackSearchErr)
		log.Errorf("[Controller] 检索失败, query: '%s', error: %v", query, err)
		c.update(func(s *State) {
			s.Status = "오류 발생: " + msg
			s.Progress = 0
			s.ResultHTML = c.renderer.Error(msg)
			s.Results = nil
		})
		return err
	}

	if len(resp.Results) == 0 {
		c.update(func(s *State) {
			s.ResultHTML = c.renderer.EmptyState()
			s.Results = nil
			s.Status = render.EmptyStateText
			s.Progress = 100
		})
		return nil
	}

	c.update(func(s *State) {
		s.ResultHTML = c.renderer.Results(resp)
		s.Results = resp.Results
		s.Status = fmt.Sprintf("검색 완료! (%d건)", len(resp.Results))
		s.Progress = 100
	})
	log.Infof("[Controller] 检索完成, query: '%s', 共 %d 条", query, len(resp.Results))
	return nil
}

// Save 把检索结果保存为 Word 文档并下载。失败只写状态栏，不动结果面板。
func (c *Controller) Save(ctx context.Context) error {
	query := strings.TrimSpace(c.State().Query)
	if query == "" {
		return c.alert("save", msgQueryRequired)
	}

	c.setStatus(msgSaving, 50)
	doc, err := c.api.Save(ctx, query)
	if err == nil {
		err = c.deliver(ctx, download.SearchResultsPrefix, doc)
	}
	if err != nil {
		msg := ordinance.UserMessage(err, fallbackSaveErr)
		log.Errorf("[Controller] 保存失败, query: '%s', error: %v", query, err)
		c.setStatus("오류: "+msg, 0)
		return err
	}

	c.setStatus(msgSaved, 100)
	return nil
}

// Upload 选择并上传 PDF。
func (c *Controller) Upload(ctx context.Context, file *model.Attachment) error {
	if file == nil {
		return nil
	}
	if err := c.SelectFile(file); err != nil {
		return err
	}

	c.setStatus(msgUploading, 0)
	log.Infof("[Controller] 开始上传 PDF: %s", file.Name)

	resp, err := c.api.Upload(ctx, file)
	if err != nil {
		msg := ordinance.UserMessage(err, fallbackUploadErr)
		log.Errorf("[Controller] 上传失败, file: %s, error: %v", file.Name, err)
		c.update(func(s *State) {
			s.Status = "오류 발생: " + msg
			s.Progress = 0
			s.ResultHTML = c.renderer.Error(msg)
		})
		return err
	}

	c.update(func(s *State) {
		s.Status = msgUploaded
		s.Progress = 100
		s.ResultHTML = c.renderer.Success(resp.Message)
	})
	return nil
}

// Compare 上传已选 PDF 与检索词，下载比较分析文档。
// 前置条件依次为检索词、至少一个密钥、已选 PDF，任一缺失都只提示不请求。
func (c *Controller) Compare(ctx context.Context) error {
	st := c.State()
	query := strings.TrimSpace(st.Query)
	if query == "" {
		return c.alert("compare", msgQueryRequired)
	}
	if !st.HasAPIKey() {
		return c.alert("compare", msgAPIKeyRequired)
	}
	if st.SelectedFile == nil {
		return c.alert("compare", msgPDFRequired)
	}

	c.setStatus(msgComparing, 0)
	log.Infof("[Controller] 开始比较分析, query: '%s', file: %s", query, st.SelectedFile.Name)

	doc, err := c.api.Compare(ctx, ordinance.CompareRequest{
		Query:        query,
		GeminiAPIKey: st.GeminiKey,
		OpenAIAPIKey: st.OpenAIKey,
		PDF:          st.SelectedFile,
	})
	if err == nil {
		err = c.deliver(ctx, download.ComparisonPrefix, doc)
	}
	if err != nil {
		msg := ordinance.UserMessage(err, fallbackCompareErr)
		log.Errorf("[Controller] 比较分析失败, query: '%s', error: %v", query, err)
		c.setStatus("오류: "+msg, 0)
		return err
	}

	c.setStatus(msgCompared, 100)
	return nil
}

func (c *Controller) deliver(ctx context.Context, prefix string, doc *model.Document) error {
	location, err := c.sink.Store(ctx, download.Filename(prefix, c.now()), doc)
	if err != nil {
		return err
	}
	c.update(func(s *State) { s.LastDownload = location })
	return nil
}

// ShowAPIHelp 打开帮助弹窗并显示对应服务的说明。
func (c *Controller) ShowAPIHelp(provider help.Provider) error {
	text, ok := help.Text(provider)
	if !ok {
		log.Warnf("[Controller] 未知的帮助类型: %s", provider)
		return fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
	}
	c.update(func(s *State) {
		s.ModalHTML = c.renderer.Help(text)
		s.Modal = ModalOpen
	})
	return nil
}

// CloseModal 关闭帮助弹窗。
func (c *Controller) CloseModal() {
	c.update(func(s *State) { s.Modal = ModalClosed })
}

// DismissAt 处理一次点击：只有点在遮罩层本身时才关闭弹窗。
func (c *Controller) DismissAt(target string) {
	if target != ModalOverlayTarget {
		return
	}
	c.CloseModal()
}
