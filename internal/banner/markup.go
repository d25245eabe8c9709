package banner

import (
	"fmt"
	"html/template"
	"strings"

	"smartbanner/internal/options"
)

var defaultTmpl = template.Must(template.New("smartbanner").Parse(`<div class="smartbanner-container">` +
	`<a href="javascript:void(0);" class="smartbanner-close">&times;</a>` +
	`<span class="smartbanner-icon" style="background-image: url({{.Icon}})"></span>` +
	`<div class="smartbanner-info">` +
	`<div class="smartbanner-title">{{.Title}}</div>` +
	`<div>{{.Author}}</div>` +
	`<span>{{.InStore}}</span>` +
	`</div>` +
	`<a href="{{.Link}}" class="smartbanner-button">` +
	`<span class="smartbanner-button-text">{{.Button}}</span>` +
	`</a>` +
	`</div>`))

type markupData struct {
	Icon, Link, InStore, Button, Title, Author string
}

// DefaultMarkup renders the stock banner body.
func DefaultMarkup(p options.Params) (string, error) {
	d := markupData{
		Icon:    str(p["icon"]),
		Link:    str(p["link"]),
		InStore: str(p["inStore"]),
		Button:  str(p["button"]),
		Title:   str(p["title"]),
		Author:  str(p["author"]),
	}
	var b strings.Builder
	if err := defaultTmpl.Execute(&b, d); err != nil {
		return "", fmt.Errorf("render banner: %w", err)
	}
	return b.String(), nil
}

func str(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
