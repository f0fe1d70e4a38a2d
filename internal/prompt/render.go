package prompt

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/abhisek/viva/internal/i18n"
)

// Rendered is a request turned into prompt text.
type Rendered struct {
	System string
	User   string
}

var funcs = template.FuncMap{
	"join": strings.Join,
}

// templates holds one template per (language, purpose). Every supported
// language must define all five purposes.
var templates = map[i18n.Lang]map[string]*template.Template{
	i18n.English: {
		"teach": parse("en/teach", `Topic: {{.Topic}}, Section: {{.Section}}
Previous: {{if .Covered}}{{join .Covered ", "}}{{else}}none{{end}}
Difficulty: {{.Difficulty}}
Learner pace: {{.Profile.PreferredPace}}

Explain 2-3 key points. Use practical examples.
End with: "Continue, or should I explain something again?"

Section {{.Section}}:`),
		"quiz-generate": parse("en/quiz-generate", `Topics: {{join .Topics ", "}}
Q#{{.Number}} | Score: {{.Score}}/{{.Total}} | Difficulty: {{.Difficulty}}

Generate a clear question:`),
		"quiz-evaluate": parse("en/quiz-evaluate", `Question: {{.PendingQuestion}}
Answer: "{{.Answer}}"

Evaluate. Confirm if correct, gently correct if wrong.
End: "Another question, or stop?"

Response:`),
		"answer": parse("en/answer", `Question: {{.Question}}

Give a clear, concise answer:`),
		"simplify": parse("en/simplify", `Explain this simply:

{{.Text}}

Simpler:`),
		"example": parse("en/example", `Give 2-3 practical examples for "{{.Topic}}":
{{- if .Context}}

Earlier explanation: {{.Context}}
{{- end}}

Examples:`),
	},
	i18n.Azerbaijani: {
		"teach": parse("az/teach", `Mövzu: {{.Topic}}, Bölmə: {{.Section}}
Əvvəlki: {{if .Covered}}{{join .Covered ", "}}{{else}}yoxdur{{end}}
Çətinlik: {{.Difficulty}}
Öyrənənin tempi: {{.Profile.PreferredPace}}

2-3 əsas nöqtə izah et. Praktik nümunə ver.
Sonda: "Davam edək, yoxsa nəyisə yenidən izah edim?"

{{.Section}}-ci bölmə:`),
		"quiz-generate": parse("az/quiz-generate", `Mövzular: {{join .Topics ", "}}
Sual #{{.Number}} | Bal: {{.Score}}/{{.Total}} | Çətinlik: {{.Difficulty}}

Aydın, sadə sual yarat:`),
		"quiz-evaluate": parse("az/quiz-evaluate", `Sual: {{.PendingQuestion}}
Cavab: "{{.Answer}}"

Qiymətləndir. Düzgündürsə təsdiq et, səhvdirsə düzəlt.
Sonda: "Başqa sual, yoxsa dayandıraq?"

Cavab:`),
		"answer": parse("az/answer", `Sual: {{.Question}}

Qısa, aydın cavab ver:`),
		"simplify": parse("az/simplify", `Bunu sadə izah et:

{{.Text}}

Sadə:`),
		"example": parse("az/example", `"{{.Topic}}" üçün 2-3 praktik nümunə:
{{- if .Context}}

Əvvəlki izah: {{.Context}}
{{- end}}

Nümunələr:`),
	},
}

var systemPrompts = map[i18n.Lang]string{
	i18n.English: "You are Viva, a patient voice tutor. Reply in English, in short spoken sentences.",
	i18n.Azerbaijani: "Sən Viva adlı səbirli səsli müəllimsən. Azərbaycan dilində, qısa danışıq cümlələri ilə cavab ver.",
}

func parse(name, text string) *template.Template {
	return template.Must(template.New(name).Funcs(funcs).Parse(text))
}

// templateKey maps a request to its template name.
func templateKey(req Request) string {
	if q, ok := req.(Quiz); ok {
		return "quiz-" + string(q.Task)
	}
	return req.Purpose()
}

// Render produces the system and user prompt for req in its language,
// falling back to the default language when unsupported.
func Render(req Request) (Rendered, error) {
	lang := req.Language()
	set, ok := templates[lang]
	if !ok {
		lang = i18n.DefaultLang
		set = templates[lang]
	}

	key := templateKey(req)
	tmpl, ok := set[key]
	if !ok {
		return Rendered{}, fmt.Errorf("no %q prompt for %s", key, lang)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, req); err != nil {
		return Rendered{}, fmt.Errorf("render %s prompt: %w", key, err)
	}
	return Rendered{System: systemPrompts[lang], User: buf.String()}, nil
}
