package controller

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"ordinance-go/internal/config"
	"ordinance-go/internal/download"
	"ordinance-go/internal/help"
	"ordinance-go/internal/model"
	"ordinance-go/internal/render"
	"ordinance-go/pkg/ordinance"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	mu sync.Mutex

	searchQueries []string
	saveQueries   []string
	uploads       []*model.Attachment
	compares      []ordinance.CompareRequest
	searchResp    *model.SearchResponse
	uploadResp    *model.UploadResponse
	doc           *model.Document
	err           error
}

func (f *fakeAPI) Search(ctx context.Context, query string) (*model.SearchResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchQueries = append(f.searchQueries, query)
	if f.err != nil {
		return nil, f.err
	}
	if f.searchResp == nil {
		return &model.SearchResponse{}, nil
	}
	return f.searchResp, nil
}

func (f *fakeAPI) Save(ctx context.Context, query string) (*model.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saveQueries = append(f.saveQueries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.doc, nil
}

func (f *fakeAPI) Upload(ctx context.Context, file *model.Attachment) (*model.UploadResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, file)
	if f.err != nil {
		return nil, f.err
	}
	return f.uploadResp, nil
}

func (f *fakeAPI) Compare(ctx context.Context, req ordinance.CompareRequest) (*model.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.compares = append(f.compares, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.doc, nil
}

func (f *fakeAPI) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.searchQueries) + len(f.saveQueries) + len(f.uploads) + len(f.compares)
}

type fakeSink struct {
	names []string
	docs  []*model.Document
	err   error
}

func (s *fakeSink) Store(ctx context.Context, name string, doc *model.Document) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.names = append(s.names, name)
	s.docs = append(s.docs, doc)
	return "/downloads/" + name, nil
}

type recordingPrompter struct {
	alerts []string
}

func (p *recordingPrompter) Alert(msg string) {
	p.alerts = append(p.alerts, msg)
}

var fixedNow = time.Date(2024, 5, 1, 3, 4, 5, 0, time.UTC)

func newTestController(api ordinance.API, sink download.Sink) (*Controller, *recordingPrompter) {
	p := &recordingPrompter{}
	c := New(api, sink, WithPrompter(p), WithClock(func() time.Time { return fixedNow }))
	return c, p
}

func pdf() *model.Attachment {
	return &model.Attachment{Name: "draft.pdf", Data: []byte("%PDF-1.7")}
}

func TestSearch_EmptyQueryMakesNoRequest(t *testing.T) {
	api := &fakeAPI{}
	c, p := newTestController(api, &fakeSink{})
	c.SetQuery("   ")

	err := c.Search(context.Background())
	assert.True(t, IsValidation(err))
	assert.Zero(t, api.calls())
	assert.Empty(t, p.alerts)
	assert.Equal(t, msgQueryRequired, c.State().Status)
}

func TestSearch_ExactlyOneRequestWithTrimmedQuery(t *testing.T) {
	api := &fakeAPI{searchResp: &model.SearchResponse{Results: []model.SearchResult{
		{Name: "서울특별시 주차장 조례", Content: model.ArticlesContent("제1조", "제2조")},
	}}}
	c, _ := newTestController(api, &fakeSink{})
	c.SetQuery("  주차장 ")

	require.NoError(t, c.Search(context.Background()))
	assert.Equal(t, []string{"주차장"}, api.searchQueries)

	st := c.State()
	assert.Equal(t, "검색 완료! (1건)", st.Status)
	assert.Equal(t, 100, st.Progress)
	assert.Len(t, st.Results, 1)
	assert.NotContains(t, st.ResultHTML, render.EmptyStateText)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(st.ResultHTML))
	require.NoError(t, err)
	assert.Equal(t, 2, doc.Find(".law-article").Length())
}

func TestSearch_EmptyResults(t *testing.T) {
	api := &fakeAPI{searchResp: &model.SearchResponse{Results: []model.SearchResult{}}}
	c, _ := newTestController(api, &fakeSink{})
	c.SetQuery("없는조례")

	require.NoError(t, c.Search(context.Background()))
	st := c.State()
	assert.Equal(t, render.NewRenderer().EmptyState(), st.ResultHTML)
	assert.Equal(t, 100, st.Progress)
	assert.Equal(t, render.EmptyStateText, st.Status)
	assert.Nil(t, st.Results)
	assert.Len(t, api.searchQueries, 1)
}

func TestSearch_ServiceErrorShownInStatusAndPanel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":"X"}`)
	}))
	defer srv.Close()

	c, _ := newTestController(ordinance.NewClient(config.APIConfig{BaseURL: srv.URL}), &fakeSink{})
	c.SetQuery("주차장")

	err := c.Search(context.Background())
	require.Error(t, err)

	st := c.State()
	assert.Contains(t, st.Status, "X")
	assert.Equal(t, 0, st.Progress)

	doc, perr := goquery.NewDocumentFromReader(strings.NewReader(st.ResultHTML))
	require.NoError(t, perr)
	block := doc.Find("p.error")
	require.Equal(t, 1, block.Length())
	assert.Contains(t, block.Text(), "X")
}

func TestSearch_UnparseableErrorFallsBack(t *testing.T) {
	api := &fakeAPI{err: &ordinance.ServiceError{Endpoint: ordinance.SearchPath, StatusCode: 502}}
	c, _ := newTestController(api, &fakeSink{})
	c.SetQuery("주차장")

	require.Error(t, c.Search(context.Background()))
	assert.Equal(t, "오류 발생: "+fallbackSearchErr, c.State().Status)
}

func TestSave_EmptyQueryAlertsWithoutRequest(t *testing.T) {
	api := &fakeAPI{}
	c, p := newTestController(api, &fakeSink{})

	err := c.Save(context.Background())
	assert.True(t, IsValidation(err))
	assert.Zero(t, api.calls())
	assert.Equal(t, []string{msgQueryRequired}, p.alerts)
	assert.Equal(t, msgQueryRequired, c.State().Alert)
}

func TestSave_DownloadsTimestampedDocument(t *testing.T) {
	doc := &model.Document{Body: []byte("docx")}
	api := &fakeAPI{doc: doc}
	sink := &fakeSink{}
	c, _ := newTestController(api, sink)
	c.SetQuery("도서관")

	require.NoError(t, c.Save(context.Background()))
	assert.Equal(t, []string{"도서관"}, api.saveQueries)
	require.Len(t, sink.names, 1)
	assert.Equal(t, "조례_검색결과_2024-05-01T030405.docx", sink.names[0])
	assert.Same(t, doc, sink.docs[0])

	st := c.State()
	assert.Equal(t, msgSaved, st.Status)
	assert.Equal(t, 100, st.Progress)
	assert.Equal(t, "/downloads/조례_검색결과_2024-05-01T030405.docx", st.LastDownload)
}

func TestSave_FailureTouchesStatusOnly(t *testing.T) {
	api := &fakeAPI{err: &ordinance.ServiceError{StatusCode: 404, Message: "검색 결과가 없습니다."}}
	c, _ := newTestController(api, &fakeSink{})
	c.SetQuery("도서관")

	require.Error(t, c.Save(context.Background()))
	st := c.State()
	assert.Equal(t, "오류: 검색 결과가 없습니다.", st.Status)
	assert.Equal(t, 0, st.Progress)
	assert.Empty(t, st.ResultHTML)
}

func TestSave_SinkFailureReported(t *testing.T) {
	api := &fakeAPI{doc: &model.Document{Body: []byte("docx")}}
	c, _ := newTestController(api, &fakeSink{err: errors.New("disk full")})
	c.SetQuery("도서관")

	require.Error(t, c.Save(context.Background()))
	assert.Equal(t, "오류: "+fallbackSaveErr, c.State().Status)
}

func TestUpload_Success(t *testing.T) {
	api := &fakeAPI{uploadResp: &model.UploadResponse{Message: "PDF 파일이 성공적으로 업로드되었습니다."}}
	c, _ := newTestController(api, &fakeSink{})

	require.NoError(t, c.Upload(context.Background(), pdf()))
	st := c.State()
	assert.Equal(t, msgUploaded, st.Status)
	assert.Equal(t, 100, st.Progress)
	assert.Contains(t, st.ResultHTML, `class="success"`)
	assert.Contains(t, st.ResultHTML, "PDF 파일이 성공적으로 업로드되었습니다.")
	assert.Equal(t, "draft.pdf", st.SelectedFileName())
}

func TestUpload_FailureShowsInlineError(t *testing.T) {
	api := &fakeAPI{err: &ordinance.ServiceError{StatusCode: 400, Message: "PDF 파일이 비어있습니다."}}
	c, _ := newTestController(api, &fakeSink{})

	require.Error(t, c.Upload(context.Background(), pdf()))
	st := c.State()
	assert.Equal(t, "오류 발생: PDF 파일이 비어있습니다.", st.Status)
	assert.Contains(t, st.ResultHTML, `class="error"`)
	assert.Contains(t, st.ResultHTML, "PDF 파일이 비어있습니다.")
}

func TestUpload_NoFileIsNoop(t *testing.T) {
	api := &fakeAPI{}
	c, _ := newTestController(api, &fakeSink{})
	assert.NoError(t, c.Upload(context.Background(), nil))
	assert.Zero(t, api.calls())
	assert.Empty(t, c.State().Status)
}

func TestSelectFile(t *testing.T) {
	c, p := newTestController(&fakeAPI{}, &fakeSink{})

	require.NoError(t, c.SelectFile(pdf()))
	assert.Equal(t, "PDF 파일이 선택되었습니다: draft.pdf", c.State().Status)

	err := c.SelectFile(&model.Attachment{Name: "notes.docx"})
	assert.True(t, IsValidation(err))
	assert.Equal(t, []string{msgPDFOnly}, p.alerts)
	assert.Equal(t, "draft.pdf", c.State().SelectedFileName())
}

func TestCompare_Preconditions(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		gemini    string
		openai    string
		file      *model.Attachment
		wantAlert string
	}{
		{name: "no query", gemini: "g", file: pdf(), wantAlert: msgQueryRequired},
		{name: "no keys", query: "주차장", file: pdf(), wantAlert: msgAPIKeyRequired},
		{name: "blank keys", query: "주차장", gemini: "  ", openai: " ", file: pdf(), wantAlert: msgAPIKeyRequired},
		{name: "no pdf", query: "주차장", openai: "sk", wantAlert: msgPDFRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{}
			c, p := newTestController(api, &fakeSink{})
			c.SetQuery(tt.query)
			c.SetAPIKeys(tt.gemini, tt.openai)
			if tt.file != nil {
				require.NoError(t, c.SelectFile(tt.file))
			}

			err := c.Compare(context.Background())
			assert.True(t, IsValidation(err))
			assert.Zero(t, api.calls())
			assert.Equal(t, []string{tt.wantAlert}, p.alerts)
		})
	}
}

func TestCompare_SendsPresentKeysAndDownloads(t *testing.T) {
	api := &fakeAPI{doc: &model.Document{Body: []byte("docx")}}
	sink := &fakeSink{}
	c, _ := newTestController(api, sink)
	c.SetQuery(" 주차장 ")
	c.SetAPIKeys("g-key", "")
	require.NoError(t, c.SelectFile(pdf()))

	require.NoError(t, c.Compare(context.Background()))
	require.Len(t, api.compares, 1)
	assert.Equal(t, "주차장", api.compares[0].Query)
	assert.Equal(t, "g-key", api.compares[0].GeminiAPIKey)
	assert.Empty(t, api.compares[0].OpenAIAPIKey)
	assert.Equal(t, "draft.pdf", api.compares[0].PDF.Name)

	assert.Equal(t, []string{"조례_비교분석_2024-05-01T030405.docx"}, sink.names)
	assert.Equal(t, msgCompared, c.State().Status)
	assert.Equal(t, 100, c.State().Progress)
}

func TestCompare_FailureTouchesStatusOnly(t *testing.T) {
	api := &fakeAPI{err: &ordinance.TransportError{Endpoint: ordinance.ComparePath, Network: true, Err: errors.New("connection reset")}}
	c, _ := newTestController(api, &fakeSink{})
	c.SetQuery("주차장")
	c.SetAPIKeys("", "sk")
	require.NoError(t, c.SelectFile(pdf()))

	require.Error(t, c.Compare(context.Background()))
	st := c.State()
	assert.Equal(t, "오류: "+ordinance.MsgNetworkFailure, st.Status)
	assert.Equal(t, 0, st.Progress)
	assert.Empty(t, st.ResultHTML)
}

func TestShowAPIHelp(t *testing.T) {
	c, _ := newTestController(&fakeAPI{}, &fakeSink{})

	require.NoError(t, c.ShowAPIHelp(help.Gemini))
	gemini := c.State()
	assert.Equal(t, ModalOpen, gemini.Modal)
	assert.NotEmpty(t, gemini.ModalHTML)
	assert.Contains(t, gemini.ModalHTML, "<br")

	c.CloseModal()
	require.NoError(t, c.ShowAPIHelp(help.OpenAI))
	openai := c.State()
	assert.Equal(t, ModalOpen, openai.Modal)
	assert.NotEmpty(t, openai.ModalHTML)
	assert.NotEqual(t, gemini.ModalHTML, openai.ModalHTML)
}

func TestShowAPIHelp_Unknown(t *testing.T) {
	c, _ := newTestController(&fakeAPI{}, &fakeSink{})
	err := c.ShowAPIHelp("claude")
	assert.ErrorIs(t, err, ErrUnknownProvider)
	assert.Equal(t, ModalClosed, c.State().Modal)
}

func TestModalDismissal(t *testing.T) {
	c, _ := newTestController(&fakeAPI{}, &fakeSink{})
	require.NoError(t, c.ShowAPIHelp(help.Gemini))

	c.DismissAt("helpContent")
	assert.Equal(t, ModalOpen, c.State().Modal)

	c.DismissAt(ModalOverlayTarget)
	assert.Equal(t, ModalClosed, c.State().Modal)

	require.NoError(t, c.ShowAPIHelp(help.Gemini))
	c.CloseModal()
	assert.Equal(t, ModalClosed, c.State().Modal)
}

func TestObserverReceivesEveryUpdate(t *testing.T) {
	api := &fakeAPI{searchResp: &model.SearchResponse{Results: []model.SearchResult{{Name: "a"}}}}
	c, _ := newTestController(api, &fakeSink{})

	var statuses []string
	c.Observe(func(s State) { statuses = append(statuses, s.Status) })

	c.SetQuery("a")
	require.NoError(t, c.Search(context.Background()))
	assert.Equal(t, []string{"", msgSearching, "검색 완료! (1건)"}, statuses)
}

func TestSearch_MalformedResponseShowsKoreanMessage(t *testing.T) {
	api := &fakeAPI{err: &ordinance.TransportError{Endpoint: ordinance.SearchPath, Err: errors.New("解析响应失败: unexpected EOF")}}
	c, _ := newTestController(api, &fakeSink{})
	c.SetQuery("주차장")

	require.Error(t, c.Search(context.Background()))
	st := c.State()
	assert.Equal(t, "오류 발생: "+ordinance.MsgBadResponse, st.Status)
	assert.Contains(t, st.ResultHTML, ordinance.MsgBadResponse)
	assert.NotContains(t, st.ResultHTML, "解析")
}
