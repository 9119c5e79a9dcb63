package fetch

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ledongthuc/pdf"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"

	"github.com/csheth/wordcloud/internal/route"
)

// FilePanel is the panel name a file route redirects to without a selection.
const FilePanel = "file"

// FileSource exposes the file chosen in the file panel.
type FileSource interface {
	SelectedFile() (path, encoding string, ok bool)
}

var extraneousWhitespace = regexp.MustCompile(`\s+`)

// FileFetcher reads the selected local file. Reading is aborted through the
// request context when the route changes.
type FileFetcher struct {
	tracker
	source FileSource
}

func NewFileFetcher(source FileSource) *FileFetcher {
	return &FileFetcher{source: source}
}

func (f *FileFetcher) Types() []string { return []string{"file"} }

func (f *FileFetcher) Verb() Verb { return VerbLoading }

func (f *FileFetcher) Retrieve(r route.Route) tea.Cmd {
	ctx, id := f.begin()
	path, encoding, ok := "", "", false
	if f.source != nil {
		path, encoding, ok = f.source.SelectedFile()
	}
	if !ok {
		return deliver(ctx, RedirectMsg{RequestID: id, Panel: FilePanel, Err: ErrNoFile})
	}
	return func() tea.Msg {
		text, err := ReadFile(ctx, path, encoding)
		if ctx.Err() != nil {
			return nil
		}
		return DataMsg{RequestID: id, Text: text, Err: err}
	}
}

// CheckFile accepts plain text and PDF files. It is the gate the file panel
// applies before pushing a route.
func CheckFile(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return ErrNoFile
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNoFile
		}
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory: %w", path, ErrUnsupportedFile)
	}
	if isPDF(path) {
		return nil
	}
	if strings.HasPrefix(mime.TypeByExtension(filepath.Ext(path)), "text/plain") {
		return nil
	}
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()
	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return err
	}
	if strings.HasPrefix(http.DetectContentType(head[:n]), "text/plain") {
		return nil
	}
	return fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupportedFile)
}

// ReadFile returns the text of path decoded from encoding (an HTML encoding
// label such as "big5"; empty means UTF-8). PDFs are text-extracted.
func ReadFile(ctx context.Context, path, encoding string) (string, error) {
	if isPDF(path) {
		return readPDF(ctx, path)
	}
	label := strings.TrimSpace(encoding)
	if label == "" {
		label = "utf-8"
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return "", fmt.Errorf("unknown encoding %q: %w", encoding, err)
	}

	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	var builder strings.Builder
	reader := transform.NewReader(contextReader{ctx: ctx, r: file}, enc.NewDecoder())
	if _, err := io.Copy(&builder, reader); err != nil {
		return "", err
	}
	return builder.String(), nil
}

func readPDF(ctx context.Context, path string) (string, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	defer file.Close()

	content, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract pdf text: %w", err)
	}

	var builder strings.Builder
	if _, err := io.Copy(&builder, contextReader{ctx: ctx, r: content}); err != nil {
		return "", err
	}

	fullText := extraneousWhitespace.ReplaceAllString(builder.String(), " ")
	return strings.TrimSpace(fullText), nil
}

func isPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
