package ai

import (
	"fmt"
	"strings"
	"sync"
	"text/template"

	"github.com/gezgin/placewise/internal/models"
)

// RequestType selects which instruction block is appended to the prompt.
type RequestType string

const (
	RequestDescription RequestType = "DESCRIPTION"
	RequestTags        RequestType = "TAGS"
	RequestCategory    RequestType = "CATEGORY"
	RequestLandingPage RequestType = "LANDING_PAGE"
)

// ErrUnsupportedRequestType is returned for request types with no
// registered instruction text.
var ErrUnsupportedRequestType = fmt.Errorf("unsupported request type")

// systemPrompt is the fixed persona message, constant across request types.
const systemPrompt = `You are a professional travel copywriter for a place discovery platform.
You write concise, factual, engaging copy grounded strictly in the place data you are given.
Never invent opening hours, ratings, or amenities that are not in the data.
Respond with the requested content only, no preamble and no commentary.`

// instructions maps request types to their instruction block. Seeded at
// package init; Register may extend it during process startup. Writes after
// the server starts serving are not supported.
var (
	instructionsMu sync.RWMutex
	instructions   = map[RequestType]string{
		RequestDescription: `Write a single-paragraph description of this place (120-180 words) for its profile page. Plain text, no markdown.`,
		RequestTags: `Produce 5-10 short search tags for this place. Respond with a JSON array of strings, e.g. ["coffee","quiet","wifi"].`,
		RequestCategory: `Classify this place into exactly one of these categories: Cultural, Entertainment, Commerce, Transportation, PublicServices, Default. Respond with the category name only.`,
		RequestLandingPage: `Produce a standalone HTML landing page for this place: a hero section with the place name and address, a description section, an opening-hours section if hours are known, and a reviews section if reviews exist. Inline CSS only, no script tags. Respond with the HTML only.`,
	}
)

// Register adds or replaces the instruction text for a request type.
func Register(rt RequestType, instruction string) {
	instructionsMu.Lock()
	defer instructionsMu.Unlock()
	instructions[rt] = instruction
}

func instructionFor(rt RequestType) (string, bool) {
	instructionsMu.RLock()
	defer instructionsMu.RUnlock()
	text, ok := instructions[rt]
	return text, ok
}

// userTemplate renders the place data block. Sections with no data degrade
// to a "not available" line rather than disappearing silently.
var userTemplate = template.Must(template.New("place").Parse(`Place data:
Name: {{.DisplayName}}
Address: {{.FormattedAddress}}
{{- if .PrimaryType}}
Type: {{.PrimaryType}}{{end}}
{{- if .Rating}}
Rating: {{.Rating}} ({{.UserRatingCount}} ratings){{end}}
{{- if .Types}}
Tags from provider: {{range $i, $t := .Types}}{{if $i}}, {{end}}{{$t}}{{end}}{{end}}
{{- if .PriceLevel}}
Price level: {{.PriceLevel}}{{end}}

Opening hours:
{{- if and .RegularOpeningHours .RegularOpeningHours.WeekdayDescriptions}}
{{- range .RegularOpeningHours.WeekdayDescriptions}}
{{.}}
{{- end}}
{{- else}}
Not available.
{{- end}}

Photos:
{{- if .Photos}}
{{len .Photos}} photo(s) available.
{{- else}}
Not available.
{{- end}}

Reviews:
{{- if .Reviews}}
{{- range .Reviews}}
- ({{.Rating}}/5, {{.RelativeTime}}) {{.Text}}
{{- end}}
{{- else}}
Not available.
{{- end}}
`))

// BuildPrompt produces the (system, user) message pair for an asset and
// request type. Deterministic for the same inputs.
func BuildPrompt(asset *models.Asset, rt RequestType) (string, string, error) {
	instruction, ok := instructionFor(rt)
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrUnsupportedRequestType, rt)
	}

	var sb strings.Builder
	if err := userTemplate.Execute(&sb, asset); err != nil {
		return "", "", fmt.Errorf("rendering place template: %w", err)
	}

	sb.WriteString("\nTask:\n")
	sb.WriteString(instruction)
	sb.WriteString("\n")

	return systemPrompt, sb.String(), nil
}
