package loader

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fumiama/go-docx"
	"github.com/ledongthuc/pdf"

	"rulebot/internal/domain"
)

// FolderLoader reads all supported files from a single folder. Traversal is
// not recursive; unsupported extensions are skipped silently.
type FolderLoader struct{}

func New() *FolderLoader { return &FolderLoader{} }

// Load returns the documents found under folder, in directory order. PDF
// files yield one document per page. Returns domain.ErrNoDocuments when no
// supported file is present.
func (l *FolderLoader) Load(folder string) ([]domain.Document, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("read folder %s: %w", folder, err)
	}
	var documents []domain.Document
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(folder, entry.Name())
		var docs []domain.Document
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".txt":
			docs, err = loadText(path)
		case ".pdf":
			docs, err = loadPDF(path)
		case ".docx":
			docs, err = loadDocx(path)
		default:
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		documents = append(documents, docs...)
	}
	if len(documents) == 0 {
		return nil, fmt.Errorf("%w in %s", domain.ErrNoDocuments, folder)
	}
	return documents, nil
}

func loadText(path string) ([]domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return []domain.Document{newDocument(path, 0, string(data))}, nil
}

func loadPDF(path string) ([]domain.Document, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var documents []domain.Document
	for pageNum := 1; pageNum <= r.NumPage(); pageNum++ {
		page := r.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", pageNum, err)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		documents = append(documents, newDocument(path, pageNum, text))
	}
	return documents, nil
}

func loadDocx(path string) ([]domain.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	doc, err := docx.Parse(f, info.Size())
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	for _, item := range doc.Document.Body.Items {
		switch it := item.(type) {
		case *docx.Paragraph:
			sb.WriteString(it.String())
			sb.WriteString("\n")
		case *docx.Table:
			sb.WriteString(it.String())
			sb.WriteString("\n")
		}
	}
	return []domain.Document{newDocument(path, 0, sb.String())}, nil
}

func newDocument(path string, page int, content string) domain.Document {
	return domain.Document{
		ID:       hashString(path + "#" + strconv.Itoa(page)),
		Path:     path,
		Filename: filepath.Base(path),
		Page:     page,
		Content:  content,
	}
}

func hashString(s string) string {
	h := sha1.Sum([]byte(s))
	return hex.EncodeToString(h[:8])
}
