package report

import (
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"gradelens/domain/analytics"
)

const pageCSS = `body{font-family:Helvetica,Arial,sans-serif;max-width:860px;margin:2em auto;color:#222}
table{border-collapse:collapse;margin:1em 0}th,td{border:1px solid #ccc;padding:4px 10px}
th{background:#ddebf7}blockquote{border-left:4px solid #f0ad4e;margin:0;padding-left:1em}`

// ToHTML renders Markdown as a complete, styled HTML page.
func ToHTML(md, title string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	r := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage,
		Title: title,
		Head:  []byte("<style>" + pageCSS + "</style>"),
	})
	return markdown.ToHTML([]byte(md), p, r)
}

// StudentCardHTML renders a report card page.
func StudentCardHTML(c StudentCard) []byte {
	return ToHTML(StudentCardMarkdown(c), "Report Card: "+c.Profile.Name)
}

// SchoolSummaryHTML renders the school summary page.
func SchoolSummaryHTML(school string, b *analytics.Bundle) []byte {
	return ToHTML(SchoolSummaryMarkdown(school, b), "School Performance Summary")
}
