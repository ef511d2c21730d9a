package handlers

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// fieldError is one entry of the validation-error list returned on 400s, so
// the admin editor can highlight every bad field at once.
type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// rule is one declarative check. Rules run in order and every failure is
// collected; validation never stops at the first problem.
type rule struct {
	field   string
	ok      func() bool
	message string
}

func runRules(rules []rule) []fieldError {
	var errs []fieldError
	for _, r := range rules {
		if !r.ok() {
			errs = append(errs, fieldError{Field: r.field, Message: r.message})
		}
	}
	return errs
}

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// runeLen bounds count characters, not bytes, so multibyte input is measured
// the way an author sees it.
func runeLen(s string, min, max int) bool {
	n := utf8.RuneCountInString(s)
	return n >= min && n <= max
}

func validateLogin(req *loginRequest) []fieldError {
	req.Username = strings.TrimSpace(req.Username)

	return runRules([]rule{
		{"username", func() bool {
			return runeLen(req.Username, 3, 50)
		}, "Username must be 3-50 characters"},
		{"username", func() bool {
			return req.Username == "" || usernamePattern.MatchString(req.Username)
		}, "Username can only contain letters, numbers, and underscores"},
		{"password", func() bool {
			return utf8.RuneCountInString(req.Password) >= 8
		}, "Password must be at least 8 characters"},
	})
}

func validatePost(req *postRequest) []fieldError {
	req.Title = strings.TrimSpace(req.Title)
	req.Excerpt = strings.TrimSpace(req.Excerpt)
	req.Content = strings.TrimSpace(req.Content)
	for i, tag := range req.Tags {
		req.Tags[i] = strings.TrimSpace(tag)
	}

	rules := []rule{
		{"title", func() bool {
			return runeLen(req.Title, 1, 200)
		}, "Title must be 1-200 characters"},
		{"excerpt", func() bool {
			return runeLen(req.Excerpt, 1, 500)
		}, "Excerpt must be 1-500 characters"},
		{"content", func() bool {
			return len(req.Content) >= 1
		}, "Content is required"},
		{"date", func() bool {
			_, err := time.Parse("2006-01-02", req.Date)
			return err == nil
		}, "Invalid date format"},
	}
	for i, tag := range req.Tags {
		tag := tag
		rules = append(rules, rule{
			fmt.Sprintf("tags[%d]", i),
			func() bool { return runeLen(tag, 1, 50) },
			"Each tag must be 1-50 characters",
		})
	}

	return runRules(rules)
}
