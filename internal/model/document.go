package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DocxContentType 是后端生成的 Word 文档的 MIME 类型。
const DocxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Document 是 /api/save 与 /api/compare 返回的二进制文档。
type Document struct {
	Body        []byte
	ContentType string
	// SuggestedName 来自 Content-Disposition，可能为空
	SuggestedName string
}

// Attachment 是用户选择的待上传文件。
type Attachment struct {
	Name string
	Data []byte
}

// IsPDF 按扩展名判断是否为 PDF。
func (a *Attachment) IsPDF() bool {
	return a != nil && strings.EqualFold(filepath.Ext(a.Name), ".pdf")
}

// LoadAttachment 从本地路径读取文件。
func LoadAttachment(path string) (*Attachment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取文件失败: %w", err)
	}
	return &Attachment{Name: filepath.Base(path), Data: data}, nil
}
