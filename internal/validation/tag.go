package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var tagRegex = regexp.MustCompile(`^[a-z0-9-]{2,24}$`)

const maxTagsPerPost = 5

// ValidateTag validates a single post tag: lowercase slug format with
// no leading or trailing hyphen.
func ValidateTag(tag string) error {
	if !tagRegex.MatchString(tag) {
		return fmt.Errorf("tag must be 2-24 characters and contain only lowercase letters, numbers, and hyphens")
	}

	if strings.HasPrefix(tag, "-") || strings.HasSuffix(tag, "-") {
		return fmt.Errorf("tag cannot start or end with a hyphen")
	}

	return nil
}

// ValidateTags validates a post's full tag list, rejecting duplicates.
func ValidateTags(tags []string) error {
	if len(tags) > maxTagsPerPost {
		return fmt.Errorf("a post can have at most %d tags", maxTagsPerPost)
	}

	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		if err := ValidateTag(tag); err != nil {
			return err
		}
		if _, dup := seen[tag]; dup {
			return fmt.Errorf("duplicate tag %q", tag)
		}
		seen[tag] = struct{}{}
	}

	return nil
}
