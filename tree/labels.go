package tree

import (
	"bytes"
	"fmt"
	"strconv"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	"github.com/gosimple/slug"
	"golang.org/x/text/unicode/norm"
)

const (
	DefaultLabelTemplate = `Part {{ .ID }}`
	DefaultLineTemplate  = `BOM {{ .Seq }}`

	// attribute names produced by Labeler
	AttrLineNum   = "lineNum"
	AttrLevelPath = "levelPath"
)

// LabelValues is a struct that holds variables we make available for node
// template expansion.
type LabelValues struct {
	ID       string
	Seq      int
	ParentID string
	Depth    int
	Ordinal  int
}

// Labeler fills node display payload.
type Labeler struct {
	label         *template.Template
	line          *template.Template
	transliterate bool
	buf           bytes.Buffer
}

// NewLabeler parses node templates. Empty templates are replaced with
// defaults.
func NewLabeler(labelTmpl, lineTmpl string, transliterate bool) (*Labeler, error) {
	if len(labelTmpl) == 0 {
		labelTmpl = DefaultLabelTemplate
	}
	if len(lineTmpl) == 0 {
		lineTmpl = DefaultLineTemplate
	}

	funcMap := sprig.FuncMap()

	label, err := template.New("label").Funcs(funcMap).Parse(labelTmpl)
	if err != nil {
		return nil, fmt.Errorf("unable to parse label template: %w", err)
	}
	line, err := template.New("line").Funcs(funcMap).Parse(lineTmpl)
	if err != nil {
		return nil, fmt.Errorf("unable to parse line template: %w", err)
	}
	return &Labeler{label: label, line: line, transliterate: transliterate}, nil
}

func (l *Labeler) expand(tmpl *template.Template, v LabelValues) (string, error) {
	l.buf.Reset()
	if err := tmpl.Execute(&l.buf, v); err != nil {
		return "", err
	}
	return l.buf.String(), nil
}

// Apply sets node label and attributes. parentPath is level path of the
// parent node, empty for roots. Labeler is not safe for concurrent use.
func (l *Labeler) Apply(n *Node, parentPath string, v LabelValues) error {
	label, err := l.expand(l.label, v)
	if err != nil {
		return fmt.Errorf("unable to expand label for node %q: %w", n.ID, err)
	}
	// templates may combine decomposed and precomposed input
	label = norm.NFC.String(label)
	if l.transliterate {
		label = slug.Make(label)
	}
	line, err := l.expand(l.line, v)
	if err != nil {
		return fmt.Errorf("unable to expand line for node %q: %w", n.ID, err)
	}

	levelPath := strconv.Itoa(v.Ordinal + 1)
	if len(parentPath) > 0 {
		levelPath = parentPath + "." + levelPath
	}

	n.Label = label
	n.Attrs = map[string]string{
		AttrLineNum:   line,
		AttrLevelPath: levelPath,
	}
	return nil
}
