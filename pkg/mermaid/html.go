package mermaid

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/google/uuid"

	"github.com/matzehuels/sourceflow/pkg/errors"
)

// DisplayOptions control how embedded diagrams are sized in the host page.
type DisplayOptions struct {
	// Height of the container in CSS pixels. Defaults to DefaultHeight.
	Height int
	// Width of the container in CSS pixels. Zero means the page's default
	// element width.
	Width int
	// Scrolling shows a scrollbar when the diagram is larger than the
	// container.
	Scrolling bool
}

// DefaultHeight is the container height used when DisplayOptions.Height is zero.
const DefaultHeight = 150

// mermaidCDN is the script source used to render markup in the browser.
const mermaidCDN = "https://cdn.jsdelivr.net/npm/mermaid/dist/mermaid.min.js"

var pageTemplate = template.Must(template.New("mermaid").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<script src="{{.CDN}}"></script>
<script>mermaid.initialize({startOnLoad: true});</script>
</head>
<body>
{{- range .Sections}}
<div id="{{.ContainerID}}" class="mermaid" style="{{.Style}}">
{{.Markup}}
</div>
{{- end}}
</body>
</html>
`))

type pageSection struct {
	ContainerID string
	Style       template.CSS
	Markup      string
}

type pageData struct {
	CDN      string
	Sections []pageSection
}

// HTML embeds mermaid markup in a standalone HTML page that renders the
// diagram via the mermaid script. The returned page is the rendering sink
// for browsers: the serve command returns it per request, and the diagram
// command writes it to a file.
func HTML(markup string, opts DisplayOptions) (string, error) {
	return HTMLPage([]string{markup}, opts)
}

// HTMLPage embeds any number of mermaid diagrams in a single standalone
// page, one container per markup. All containers share the same display
// options but get unique identities.
func HTMLPage(markups []string, opts DisplayOptions) (string, error) {
	height := opts.Height
	if height == 0 {
		height = DefaultHeight
	}
	overflow := "hidden"
	if opts.Scrolling {
		overflow = "auto"
	}
	style := fmt.Sprintf("height:%dpx;overflow:%s;", height, overflow)
	if opts.Width != 0 {
		style += fmt.Sprintf("width:%dpx;", opts.Width)
	}

	data := pageData{CDN: mermaidCDN}
	for _, markup := range markups {
		data.Sections = append(data.Sections, pageSection{
			ContainerID: "mermaid-" + uuid.NewString(),
			Style:       template.CSS(style),
			Markup:      markup,
		})
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "render diagram page")
	}
	return buf.String(), nil
}
