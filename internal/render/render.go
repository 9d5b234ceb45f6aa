// Package render はmarkdownのHTMLレンダリングとシンタックスハイライトを提供する。
// エディタのプレビュー表示用であり、markdown→HTMLの忠実性は
// ライブラリのデフォルト以上には作り込まない。
package render

import (
	"fmt"
	"io"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Sanitizer はレンダリング結果のHTMLサニタイズインターフェース。
// security.ContentSanitizerServiceの部分集合として定義する。
type Sanitizer interface {
	Sanitize(rawHTML string) string
}

// Renderer はmarkdownをサニタイズ済みHTMLに変換する。
type Renderer struct {
	sanitizer Sanitizer
}

// NewRenderer はRendererを生成する。
func NewRenderer(sanitizer Sanitizer) *Renderer {
	return &Renderer{sanitizer: sanitizer}
}

// Render はmarkdownテキストをサニタイズ済みHTMLに変換する。
// フェンス付きコードブロックはchromaでハイライトされる。
func (r *Renderer) Render(md string) string {
	opts := mdhtml.RendererOptions{
		Flags: mdhtml.CommonFlags | mdhtml.HrefTargetBlank,
		RenderNodeHook: func(w io.Writer, node ast.Node, entering bool) (ast.WalkStatus, bool) {
			if code, ok := node.(*ast.CodeBlock); ok && entering {
				var lang string
				if info := code.Info; info != nil {
					lang = string(info)
				}
				highlighted := HighlightCode(string(code.Literal), lang)
				fmt.Fprintf(w, "<div class=\"highlight\"><pre>%s</pre></div>", highlighted)
				return ast.GoToNext, true
			}
			return ast.GoToNext, false
		},
	}

	doc := parser.NewWithExtensions(
		parser.Tables | parser.FencedCode | parser.Autolink |
			parser.Strikethrough | parser.SpaceHeadings,
	).Parse([]byte(md))

	rendered := markdown.Render(doc, mdhtml.NewRenderer(opts))
	return r.sanitizer.Sanitize(string(rendered))
}
