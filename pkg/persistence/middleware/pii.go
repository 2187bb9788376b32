package middleware

import (
	"context"
	"encoding/json"
	"regexp"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
)

type piiMiddleware struct {
	next     ports.StackStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks values of parameter keys
// matching the patterns. Only parameters holding a JSON object are inspected.
func NewPIIMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.StackStore) ports.StackStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}
}

func (m *piiMiddleware) Save(ctx context.Context, containerID string, records []domain.RecoveryRecord) error {
	// Work on a copy; the caller keeps using its records.
	masked := make([]domain.RecoveryRecord, len(records))
	for i, r := range records {
		r.Param = m.maskParam(r.Param)
		masked[i] = r
	}
	return m.next.Save(ctx, containerID, masked)
}

func (m *piiMiddleware) Load(ctx context.Context, containerID string) ([]domain.RecoveryRecord, error) {
	return m.next.Load(ctx, containerID)
}

func (m *piiMiddleware) Delete(ctx context.Context, containerID string) error {
	return m.next.Delete(ctx, containerID)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func (m *piiMiddleware) maskParam(param string) string {
	var obj map[string]any
	if err := json.Unmarshal([]byte(param), &obj); err != nil || obj == nil {
		return param
	}
	maskMap(obj, m.patterns)
	out, err := json.Marshal(obj)
	if err != nil {
		return param
	}
	return string(out)
}

// Helpers

func maskMap(m map[string]any, patterns []*regexp.Regexp) {
	for k, v := range m {
		masked := false
		for _, p := range patterns {
			if p.MatchString(k) {
				m[k] = "***"
				masked = true
				break
			}
		}
		if masked {
			continue
		}

		if subMap, ok := v.(map[string]any); ok {
			maskMap(subMap, patterns)
		}
	}
}
