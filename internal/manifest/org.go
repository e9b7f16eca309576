package manifest

import "strings"

// Organisation codes derived from the first URL segment.
const (
	OrgGyldendal    = "gl"
	OrgUndervisning = "gu"
	OrgAkademisk    = "ga"
	OrgCommon       = "common"
)

var orgSections = map[string]string{
	"Barneboeker":       OrgGyldendal,
	"Forfattere":        OrgGyldendal,
	"Om-Gyldendal":      OrgGyldendal,
	"Sakprosa":          OrgGyldendal,
	"Skjoennlitteratur": OrgGyldendal,

	"Barnehage": OrgUndervisning,
	"grs":       OrgUndervisning,
	"vgs":       OrgUndervisning,

	"Faglitteratur":                   OrgAkademisk,
	"Forfatter-i-Gyldendal-Akademisk": OrgAkademisk,
}

// OrgFor maps a legacy site section (first path segment) to its organisation.
// Matching is case-sensitive. Unknown sections belong to OrgCommon.
func OrgFor(section string) string {
	if org, ok := orgSections[section]; ok {
		return org
	}

	return OrgCommon
}

// OrgForURL derives the organisation of a raw manifest URL.
func OrgForURL(rawURL string) string {
	section, _, _ := strings.Cut(rawURL, "/")
	return OrgFor(section)
}
