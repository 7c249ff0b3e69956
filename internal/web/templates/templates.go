// Package templates renders the HTML views of the server.
package templates

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/sheetresolver/internal/core"
	"github.com/JonMunkholm/sheetresolver/internal/export"
)

const pageStyle = `body{font-family:system-ui,sans-serif;margin:1.5rem;color:#1f2937}
table{border-collapse:collapse;font-size:.85rem}
th,td{border:1px solid #d1d5db;padding:.25rem .5rem;text-align:left;vertical-align:top}
th{background:#f3f4f6;position:sticky;top:0}
td.null{color:#9ca3af}
.meta{color:#6b7280;margin-bottom:1rem}
.alert{border:1px solid #fca5a5;background:#fef2f2;padding:.75rem 1rem;border-radius:.25rem}
.alert code{color:#991b1b}`

// Layout wraps body in a full HTML page.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>%s</title><style>%s</style></head><body>`,
			templ.EscapeString(title), pageStyle); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}

// SheetTable renders flattened rows with a summary line.
func SheetTable(sheet string, table *export.Table, page core.Pagination) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder

		fmt.Fprintf(&b, `<h1>%s</h1>`, templ.EscapeString(sheet))
		fmt.Fprintf(&b, `<p class="meta">%d results, page %d of %d</p>`,
			page.ResultsTotal, page.Page, page.PageTotal)

		b.WriteString(`<table><thead><tr>`)
		for _, col := range table.Columns {
			fmt.Fprintf(&b, `<th>%s</th>`, templ.EscapeString(col))
		}
		b.WriteString(`</tr></thead><tbody>`)
		for _, row := range table.Rows {
			b.WriteString(`<tr>`)
			for _, v := range row {
				if v.IsNull() {
					b.WriteString(`<td class="null">null</td>`)
					continue
				}
				fmt.Fprintf(&b, `<td>%s</td>`, templ.EscapeString(v.Raw()))
			}
			b.WriteString(`</tr>`)
		}
		b.WriteString(`</tbody></table>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}

// ErrorAlert renders a user-facing error.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		fmt.Fprintf(&b, `<div class="alert" role="alert"><strong>%s</strong>`, templ.EscapeString(message))
		if action != "" {
			fmt.Fprintf(&b, `<p>%s</p>`, templ.EscapeString(action))
		}
		fmt.Fprintf(&b, `<p>Code: <code>%s</code></p></div>`, templ.EscapeString(code))
		_, err := io.WriteString(w, b.String())
		return err
	})
}
