package sitekit

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func fixedTime() time.Time {
	return time.Date(2025, time.March, 7, 12, 0, 0, 0, time.UTC)
}

func newCardRenderer(t *testing.T, opts ...CardOption) *MarkdownCardRenderer {
	t.Helper()
	opts = append([]CardOption{WithCardTime(fixedTime)}, opts...)
	r, err := NewMarkdownCardRenderer(opts...)
	if err != nil {
		t.Fatalf("NewMarkdownCardRenderer() error = %v", err)
	}
	return r
}

func TestMarkdownCardRenderer_RenderCard(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		markdown string
		opts     []CardOption
		want     []string
		notWant  []string
	}{
		{
			name: "front matter",
			markdown: `---
title: Core Concepts
description: Time as a resource
site: Chronovyan
url: docs.example.com
date: 2024-05-01
lang: fr
---
Temporal ==weaving== explained.
`,
			want: []string{
				`<html lang="fr">`,
				`<h1 class="card-title">Core Concepts</h1>`,
				`<p class="card-description">Time as a resource</p>`,
				`<header class="card-site">Chronovyan</header>`,
				"docs.example.com",
				"2024-05-01",
				"<mark>weaving</mark>",
			},
		},
		{
			name:     "heading becomes title",
			markdown: "\n# Quick Start\n\nInstall it.\n",
			want:     []string{`<h1 class="card-title">Quick Start</h1>`, "<p>Install it.</p>"},
			notWant:  []string{`<h1 id="quick-start">`},
		},
		{
			name:     "auto date",
			markdown: "---\ntitle: T\ndate: auto:long\n---\n",
			want:     []string{"March 7, 2025"},
		},
		{
			name:     "site fallback",
			markdown: "# T\n",
			opts:     []CardOption{WithSiteName("Fallback Docs")},
			want:     []string{`<header class="card-site">Fallback Docs</header>`},
		},
		{
			name:     "unknown keys ignored",
			markdown: "---\ntitle: T\nhide: [toc]\n---\nBody\n",
			want:     []string{`<h1 class="card-title">T</h1>`},
		},
		{
			name:     "raw HTML dropped",
			markdown: "# T\n\n<script>alert(1)</script>\n",
			notWant:  []string{"alert(1)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := newCardRenderer(t, tt.opts...)
			got, err := r.RenderCard(context.Background(), tt.markdown, "")
			if err != nil {
				t.Fatalf("RenderCard() error = %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("RenderCard() missing %q in:\n%s", want, got)
				}
			}
			for _, notWant := range tt.notWant {
				if strings.Contains(got, notWant) {
					t.Errorf("RenderCard() contains %q in:\n%s", notWant, got)
				}
			}
		})
	}
}

func TestMarkdownCardRenderer_RelativeImages(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "logo.png"), []byte("png"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	r := newCardRenderer(t)
	got, err := r.RenderCard(context.Background(), "# T\n\n![logo](logo.png)\n", dir)
	if err != nil {
		t.Fatalf("RenderCard() error = %v", err)
	}
	if !strings.Contains(got, `src="file://`) || !strings.Contains(got, `/logo.png"`) {
		t.Errorf("relative image not rewritten to a file URL:\n%s", got)
	}
}

func TestMarkdownCardRenderer_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		markdown string
	}{
		{"broken front matter", "---\ntitle: [unclosed\n---\n"},
		{"bad auto date", "---\ndate: auto:[oops\n---\n"},
	}

	r := newCardRenderer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := r.RenderCard(context.Background(), tt.markdown, "")
			if !errors.Is(err, ErrCardRender) {
				t.Errorf("RenderCard() error = %v, want %v", err, ErrCardRender)
			}
		})
	}
}

func TestNewMarkdownCardRenderer_MissingAssets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		loader  *staticLoader
		wantErr error
	}{
		{"no template", &staticLoader{}, ErrTemplateNotFound},
		{"no style", &staticLoader{templates: map[string]string{CardTemplate: "{{.Title}}"}}, ErrStyleNotFound},
		{"broken template", &staticLoader{
			templates: map[string]string{CardTemplate: "{{.Title"},
			styles:    map[string]string{CardStyle: ""},
		}, ErrCardRender},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewMarkdownCardRenderer(WithCardAssetLoader(tt.loader))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewMarkdownCardRenderer() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestExtractTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		body      string
		wantTitle string
		wantRest  string
	}{
		{"# Hello\nworld", "Hello", "world"},
		{"\n\n# Hello  \n", "Hello", ""},
		{"## Sub\n", "", "## Sub\n"},
		{"text\n# Late", "", "text\n# Late"},
		{"", "", ""},
	}

	for _, tt := range tests {
		title, rest := extractTitle(tt.body)
		if title != tt.wantTitle || rest != tt.wantRest {
			t.Errorf("extractTitle(%q) = (%q, %q), want (%q, %q)", tt.body, title, rest, tt.wantTitle, tt.wantRest)
		}
	}
}
