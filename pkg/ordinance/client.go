// Package ordinance 提供了访问条例检索服务 REST 接口的客户端。
package ordinance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"ordinance-go/internal/config"
	"ordinance-go/internal/model"
	"ordinance-go/pkg/log"

	"github.com/google/uuid"
)

// 后端暴露的四个接口。
const (
	SearchPath  = "/api/search"
	SavePath    = "/api/save"
	UploadPath  = "/api/upload"
	ComparePath = "/api/compare"
)

// API 是控制器依赖的后端能力集合。
type API interface {
	Search(ctx context.Context, query string) (*model.SearchResponse, error)
	Save(ctx context.Context, query string) (*model.Document, error)
	Upload(ctx context.Context, file *model.Attachment) (*model.UploadResponse, error)
	Compare(ctx context.Context, req CompareRequest) (*model.Document, error)
}

// CompareRequest 是 /api/compare 的表单字段。密钥为空时不发送对应字段。
type CompareRequest struct {
	Query        string
	GeminiAPIKey string
	OpenAIAPIKey string
	PDF          *model.Attachment
}

// Client 是条例检索服务的 HTTP 客户端。
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient 创建一个新的客户端实例。
// 不设置超时：请求一直等待网络层给出结果，取消只能通过 ctx。
func NewClient(cfg config.APIConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{},
	}
}

// Search 调用 /api/search。
func (c *Client) Search(ctx context.Context, query string) (*model.SearchResponse, error) {
	resp, err := c.postJSON(ctx, SearchPath, model.SearchRequest{Query: query})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(SearchPath, resp); err != nil {
		return nil, err
	}

	var out model.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &TransportError{Endpoint: SearchPath, Err: fmt.Errorf("解析响应失败: %w", err)}
	}
	log.Infof("[OrdinanceClient] 检索完成, query: '%s', 返回 %d 条结果", query, len(out.Results))
	return &out, nil
}

// Save 调用 /api/save，返回生成的 Word 文档。
func (c *Client) Save(ctx context.Context, query string) (*model.Document, error) {
	resp, err := c.postJSON(ctx, SavePath, model.SearchRequest{Query: query})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(SavePath, resp); err != nil {
		return nil, err
	}
	return readDocument(SavePath, resp)
}

// Upload 以 multipart 表单上传 PDF，字段名为 pdf。
func (c *Client) Upload(ctx context.Context, file *model.Attachment) (*model.UploadResponse, error) {
	body, contentType, err := buildMultipart(file, nil)
	if err != nil {
		return nil, &TransportError{Endpoint: UploadPath, Err: err}
	}

	resp, err := c.post(ctx, UploadPath, contentType, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(UploadPath, resp); err != nil {
		return nil, err
	}

	var out model.UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &TransportError{Endpoint: UploadPath, Err: fmt.Errorf("解析响应失败: %w", err)}
	}
	log.Infof("[OrdinanceClient] 上传完成, file: %s", file.Name)
	return &out, nil
}

// Compare 上传 PDF 与检索词，返回比较分析文档。
func (c *Client) Compare(ctx context.Context, req CompareRequest) (*model.Document, error) {
	fields := [][2]string{{"query", req.Query}}
	if req.GeminiAPIKey != "" {
		fields = append(fields, [2]string{"geminiApiKey", req.GeminiAPIKey})
	}
	if req.OpenAIAPIKey != "" {
		fields = append(fields, [2]string{"openaiApiKey", req.OpenAIAPIKey})
	}

	body, contentType, err := buildMultipart(req.PDF, fields)
	if err != nil {
		return nil, &TransportError{Endpoint: ComparePath, Err: err}
	}

	resp, err := c.post(ctx, ComparePath, contentType, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(ComparePath, resp); err != nil {
		return nil, err
	}
	return readDocument(ComparePath, resp)
}

func (c *Client) postJSON(ctx context.Context, path string, payload interface{}) (*http.Response, error) {
	reqBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, &TransportError{Endpoint: path, Err: fmt.Errorf("序列化请求失败: %w", err)}
	}
	return c.post(ctx, path, "application/json", bytes.NewReader(reqBytes))
}

func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, &TransportError{Endpoint: path, Err: fmt.Errorf("创建请求失败: %w", err)}
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Request-ID", requestID)

	log.Debugf("[OrdinanceClient] POST %s, requestID: %s", path, requestID)
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &TransportError{Endpoint: path, Network: true, Err: err}
	}
	return resp, nil
}

// checkStatus 把非 2xx 响应转换为 ServiceError，尽量从 {error} 中取出消息。
func checkStatus(path string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	bodyBytes, _ := io.ReadAll(resp.Body)
	svcErr := &ServiceError{Endpoint: path, StatusCode: resp.StatusCode}
	var apiErr model.APIError
	if err := json.Unmarshal(bodyBytes, &apiErr); err == nil {
		svcErr.Message = apiErr.Error
	} else {
		log.Warnf("[OrdinanceClient] %s 返回了无法解析的错误负载 [%d]: %s", path, resp.StatusCode, string(bodyBytes))
	}
	return svcErr
}

func readDocument(path string, resp *http.Response) (*model.Document, error) {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Endpoint: path, Err: fmt.Errorf("读取文档失败: %w", err)}
	}

	doc := &model.Document{
		Body:        data,
		ContentType: resp.Header.Get("Content-Type"),
	}
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			doc.SuggestedName = params["filename"]
		}
	}
	return doc, nil
}

func buildMultipart(file *model.Attachment, fields [][2]string) (io.Reader, string, error) {
	if file == nil {
		return nil, "", fmt.Errorf("缺少 PDF 文件")
	}

	buf := new(bytes.Buffer)
	w := multipart.NewWriter(buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="pdf"; filename="%s"`, escapeQuotes(file.Name)))
	h.Set("Content-Type", "application/pdf")
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("创建表单文件失败: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, "", fmt.Errorf("写入表单文件失败: %w", err)
	}

	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", fmt.Errorf("写入表单字段 %s 失败: %w", f[0], err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("关闭表单失败: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
