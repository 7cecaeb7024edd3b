package httpfetch

import (
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name        string
		html        string
		contentType string
		title       *string
		h1          *string
		description *string
	}{
		{
			name:        "all fields",
			html:        `<html><head><title> Hi </title><meta name="description" content="About us"></head><body><h1>Welcome</h1><h1>Second</h1></body></html>`,
			title:       ptr("Hi"),
			h1:          ptr("Welcome"),
			description: ptr("About us"),
		},
		{
			name:  "only title",
			html:  `<html><head><title>Hi</title></head><body><p>no heading</p></body></html>`,
			title: ptr("Hi"),
		},
		{
			name: "empty document",
			html: ``,
		},
		{
			name:  "unclosed tags",
			html:  `<title>Broken<h1>Still here`,
			title: ptr("Broken<h1>Still here"),
		},
		{
			name: "h1 without title in malformed markup",
			html: `<div><h1>Heading <b>bold</div>`,
			h1:   ptr("Heading bold"),
		},
		{
			name:        "meta name is case insensitive",
			html:        `<meta name="Description" content="Mixed case"><meta name="description" content="later">`,
			description: ptr("Mixed case"),
		},
		{
			name:  "meta without content is absent",
			html:  `<meta name="description"><title>T</title>`,
			title: ptr("T"),
		},
		{
			name:        "empty title is present but empty",
			html:        `<title></title><meta name="description" content="">`,
			title:       ptr(""),
			description: ptr(""),
		},
		{
			name:        "declared charset is decoded",
			html:        "<title>caf\xe9</title>",
			contentType: "text/html; charset=ISO-8859-1",
			title:       ptr("café"),
		},
		{
			name: "not html at all",
			html: `{"status":"ok"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contentType := tt.contentType
			if contentType == "" {
				contentType = "text/html; charset=utf-8"
			}
			got := Extract(strings.NewReader(tt.html), contentType, zap.NewNop())
			assertField(t, "title", got.Title, tt.title)
			assertField(t, "h1", got.H1, tt.h1)
			assertField(t, "description", got.Description, tt.description)
		})
	}
}

func ptr(s string) *string { return &s }

func assertField(t *testing.T, name string, got, want *string) {
	t.Helper()
	switch {
	case got == nil && want == nil:
	case got == nil:
		t.Errorf("%s = <absent>, want %q", name, *want)
	case want == nil:
		t.Errorf("%s = %q, want <absent>", name, *got)
	case *got != *want:
		t.Errorf("%s = %q, want %q", name, *got, *want)
	}
}
