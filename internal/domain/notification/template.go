package notification

import (
	"fmt"
	"strings"
	"text/template"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// EndDateLayout is the date format used inside rendered messages
const EndDateLayout = "02/01/2006"

// DefaultTemplates returns the built-in copy for each bucket
func DefaultTemplates() map[Bucket]string {
	return map[Bucket]string{
		BucketWelcome:     "Hi {{.MemberName}}! You are now connected to {{.GymName}}. We will let you know here when your membership is about to end.",
		BucketExpiringIn7: "Hi {{.MemberName}}, your {{.DisciplineName}} membership at {{.GymName}} ends on {{.EndDate}} ({{.DaysLeft}} days left). Renew early to keep training without interruptions.",
		BucketExpiringIn3: "Hi {{.MemberName}}, only {{.DaysLeft}} days left on your {{.DisciplineName}} membership at {{.GymName}}. It ends on {{.EndDate}}.",
		BucketExpired:     "Hi {{.MemberName}}, your {{.DisciplineName}} membership at {{.GymName}} ends today ({{.EndDate}}). Drop by the front desk to renew.",
	}
}

// TemplateData is the set of values available to message templates
type TemplateData struct {
	MemberName     string
	DisciplineName string
	GymName        string
	EndDate        string
	DaysLeft       int
}

// NewTemplateData formats the values shown to the member. Names typed in lower
// case at the desk are title-cased; existing capitals are kept.
func NewTemplateData(memberName, disciplineName, gymName string, endDate time.Time, daysLeft int, loc *time.Location) TemplateData {
	if loc == nil {
		loc = time.UTC
	}
	data := TemplateData{
		MemberName:     cases.Title(language.Und, cases.NoLower).String(memberName),
		DisciplineName: disciplineName,
		GymName:        gymName,
		DaysLeft:       daysLeft,
	}
	if !endDate.IsZero() {
		data.EndDate = endDate.In(loc).Format(EndDateLayout)
	}
	return data
}

// Renderer turns a bucket and template data into message text
type Renderer struct {
	templates map[Bucket]*template.Template
}

// NewRenderer parses the given templates. Buckets missing from overrides use
// the default copy.
func NewRenderer(overrides map[Bucket]string) (*Renderer, error) {
	sources := DefaultTemplates()
	for bucket, text := range overrides {
		if strings.TrimSpace(text) != "" {
			sources[bucket] = text
		}
	}

	r := &Renderer{templates: make(map[Bucket]*template.Template, len(sources))}
	for bucket, text := range sources {
		tmpl, err := template.New(string(bucket)).Option("missingkey=error").Parse(text)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", bucket, err)
		}
		r.templates[bucket] = tmpl
	}
	return r, nil
}

// Render produces the message for bucket
func (r *Renderer) Render(bucket Bucket, data TemplateData) (string, error) {
	tmpl, ok := r.templates[bucket]
	if !ok {
		return "", fmt.Errorf("no template for bucket %s", bucket)
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render %s template: %w", bucket, err)
	}
	return sb.String(), nil
}
