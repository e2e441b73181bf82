package mail

import (
	"bytes"
	"html/template"
)

var noticeTpl = template.Must(template.New("notice").Parse(`<p>{{.PenName}}，您好：</p>
<p>{{.Headline}}</p>
<p>《{{.Title}}》</p>
{{if .Note}}<p>说明：{{.Note}}</p>{{end}}
<p>Inkwell 编辑部</p>`))

// Notice 审核结果通知邮件
type Notice struct {
	PenName  string
	Headline string
	Title    string
	Note     string
}

func RenderNotice(n *Notice) (string, error) {
	var buf bytes.Buffer
	if err := noticeTpl.Execute(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
