package migration

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/synqtech/synq-site/internal/models"
)

// RawRecord is a loosely typed local record as decoded from JSON.
type RawRecord map[string]any

// Normalizer maps local records onto the canonical models. Now supplies the
// created_at default for comments without a date.
type Normalizer struct {
	Now func() time.Time
}

func NewNormalizer() *Normalizer {
	return &Normalizer{Now: time.Now}
}

// Normalize converts one raw record of the given kind.
func (n *Normalizer) Normalize(kind models.Kind, raw RawRecord) (models.Record, error) {
	switch kind {
	case models.KindTeamMembers:
		return NormalizeTeamMember(raw)
	case models.KindProjects:
		return NormalizeProject(raw)
	case models.KindComments:
		return NormalizeComment(raw, n.now())
	}
	return nil, NewValidationError(kind, "kind")
}

// NormalizeBatch converts every record it can and returns the validation
// errors of the ones it dropped, each carrying its index in raws.
func (n *Normalizer) NormalizeBatch(kind models.Kind, raws []RawRecord) ([]models.Record, []*ValidationError) {
	records := make([]models.Record, 0, len(raws))
	var dropped []*ValidationError

	for i, raw := range raws {
		record, err := n.Normalize(kind, raw)
		if err != nil {
			verr, ok := err.(*ValidationError)
			if !ok {
				verr = NewValidationError(kind, "record")
				verr.Cause = err
			}
			verr.Index = i
			dropped = append(dropped, verr)
			continue
		}
		records = append(records, record)
	}
	return records, dropped
}

func (n *Normalizer) now() time.Time {
	if n == nil || n.Now == nil {
		return time.Now()
	}
	return n.Now()
}

// NormalizeTeamMember maps photo/social onto image_url/social_links.
func NormalizeTeamMember(raw RawRecord) (*models.TeamMember, error) {
	name := stringField(raw, "name")
	if name == "" {
		return nil, NewValidationError(models.KindTeamMembers, "name")
	}

	social := mapField(raw, "social", "social_links", "socialLinks")

	return &models.TeamMember{
		Name:     name,
		Role:     stringField(raw, "role"),
		Bio:      stringField(raw, "bio"),
		ImageURL: withDefault(stringField(raw, "photo", "image_url", "imageUrl"), models.PlaceholderImage),
		SocialLinks: models.SocialLinks{
			LinkedIn:  stringField(social, "linkedin"),
			GitHub:    stringField(social, "github"),
			Instagram: stringField(social, "instagram"),
		},
	}, nil
}

// NormalizeProject renames the camelCase project fields and fills defaults.
func NormalizeProject(raw RawRecord) (*models.Project, error) {
	title := stringField(raw, "title")
	if title == "" {
		return nil, NewValidationError(models.KindProjects, "title")
	}

	return &models.Project{
		Title:       title,
		Type:        stringField(raw, "category", "type"),
		Description: stringField(raw, "description"),
		ImageURL:    withDefault(stringField(raw, "image", "image_url", "imageUrl"), models.PlaceholderImage),
		DemoURL:     withDefault(stringField(raw, "demoUrl", "demo_url"), "#"),
		GithubURL:   withDefault(stringField(raw, "githubUrl", "github_url"), "#"),
		TechStack:   stringListField(raw, "technologies", "tech_stack", "techStack"),
	}, nil
}

// NormalizeComment maps date/status onto created_at/is_approved. A missing
// or unreadable date becomes now.
func NormalizeComment(raw RawRecord, now time.Time) (*models.Comment, error) {
	name := stringField(raw, "name")
	if name == "" {
		return nil, NewValidationError(models.KindComments, "name")
	}
	text := stringField(raw, "comment")
	if text == "" {
		return nil, NewValidationError(models.KindComments, "comment")
	}

	createdAt, ok := timeField(raw, "date", "created_at", "createdAt")
	if !ok {
		createdAt = now
	}

	return &models.Comment{
		Name:       name,
		Email:      stringField(raw, "email"),
		Comment:    text,
		Likes:      intField(raw, "likes"),
		IsApproved: approvalField(raw),
		CreatedAt:  createdAt.UTC(),
	}, nil
}

// lookup returns the first non-null value stored under one of keys.
func lookup(raw RawRecord, keys ...string) (any, bool) {
	for _, key := range keys {
		if v, ok := raw[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func stringField(raw RawRecord, keys ...string) string {
	v, ok := lookup(raw, keys...)
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case bool:
		return strconv.FormatBool(s)
	}
	return ""
}

func mapField(raw RawRecord, keys ...string) RawRecord {
	v, ok := lookup(raw, keys...)
	if !ok {
		return RawRecord{}
	}
	switch m := v.(type) {
	case map[string]any:
		return RawRecord(m)
	case RawRecord:
		return m
	case map[string]string:
		out := make(RawRecord, len(m))
		for k, s := range m {
			out[k] = s
		}
		return out
	}
	return RawRecord{}
}

func stringListField(raw RawRecord, keys ...string) []string {
	out := []string{}
	v, ok := lookup(raw, keys...)
	if !ok {
		return out
	}

	var items []string
	switch list := v.(type) {
	case []any:
		for _, item := range list {
			if s, ok := item.(string); ok {
				items = append(items, s)
			}
		}
	case []string:
		items = list
	case string:
		items = strings.Split(list, ",")
	}

	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func intField(raw RawRecord, keys ...string) int {
	v, ok := lookup(raw, keys...)
	if !ok {
		return 0
	}
	var n int
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0
		}
		n = int(x)
	case int:
		n = x
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return 0
		}
		n = parsed
	}
	if n < 0 {
		return 0
	}
	return n
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"1/2/2006",
}

func timeField(raw RawRecord, keys ...string) (time.Time, bool) {
	v, ok := lookup(raw, keys...)
	if !ok {
		return time.Time{}, false
	}
	switch x := v.(type) {
	case string:
		s := strings.TrimSpace(x)
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	case float64:
		// JavaScript Date.now() milliseconds.
		if x > 0 && !math.IsInf(x, 0) {
			return time.UnixMilli(int64(x)), true
		}
	case time.Time:
		if !x.IsZero() {
			return x, true
		}
	}
	return time.Time{}, false
}

// approvalField reads the local status label, falling back to an explicit
// canonical flag. Anything but "approved" is not approved.
func approvalField(raw RawRecord) bool {
	if status := stringField(raw, "status"); status != "" {
		return strings.EqualFold(status, "approved")
	}
	v, ok := lookup(raw, "is_approved", "isApproved")
	if !ok {
		return false
	}
	approved, _ := v.(bool)
	return approved
}

func withDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
