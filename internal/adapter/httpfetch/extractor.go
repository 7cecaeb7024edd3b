package httpfetch

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/user/page-analyzer/internal/entity"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
)

// Extract parses body leniently and pulls the first <title>, the first <h1>
// and the first <meta name="description"> content. A field that cannot be
// found stays nil; nothing here returns an error.
func Extract(body io.Reader, contentType string, logger *zap.Logger) entity.PageSnapshot {
	var snapshot entity.PageSnapshot

	reader, err := charset.NewReader(body, contentType)
	if err != nil {
		logger.Debug("unknown charset, reading raw body", zap.String("content_type", contentType), zap.Error(err))
		reader = body
	}

	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		logger.Warn("failed to parse page body", zap.Error(err))
		return snapshot
	}

	snapshot.Title = field(logger, "title", func() *string { return firstText(doc, "title") })
	snapshot.H1 = field(logger, "h1", func() *string { return firstText(doc, "h1") })
	snapshot.Description = field(logger, "description", func() *string { return metaDescription(doc) })
	return snapshot
}

// field runs one extraction step, degrading a panic inside it to an absent value.
func field(logger *zap.Logger, name string, extract func() *string) (value *string) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("field extraction failed", zap.String("field", name), zap.Any("panic", r))
			value = nil
		}
	}()
	return extract()
}

func firstText(doc *goquery.Document, selector string) *string {
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return nil
	}
	text := strings.TrimSpace(sel.Text())
	return &text
}

func metaDescription(doc *goquery.Document) *string {
	var content *string
	doc.Find("meta[name]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		name, _ := s.Attr("name")
		if !strings.EqualFold(strings.TrimSpace(name), "description") {
			return true
		}
		if value, ok := s.Attr("content"); ok {
			value = strings.TrimSpace(value)
			content = &value
		}
		return false
	})
	return content
}
