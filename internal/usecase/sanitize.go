package usecase

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var textPolicy = bluemonday.StrictPolicy()

// sanitizeText strips markup from free text. Blank input becomes nil.
func sanitizeText(s *string) *string {
	if s == nil {
		return nil
	}
	clean := strings.TrimSpace(textPolicy.Sanitize(*s))
	if clean == "" {
		return nil
	}
	return &clean
}
