package forum

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jellydator/validation"

	"discussionForum/models"
)

const emptyContent = "content cannot be empty"

var titleLengthMsg = fmt.Sprintf("title must be between %d and %d characters", models.TitleMinLength, models.TitleMaxLength)

type postInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (p postInput) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title,
			validation.Required.Error(titleLengthMsg),
			validation.RuneLength(models.TitleMinLength, models.TitleMaxLength).Error(titleLengthMsg)),
		validation.Field(&p.Content, validation.Required.Error(emptyContent)),
	)
}

type contentInput struct {
	Content string `json:"content"`
}

func (c contentInput) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Content, validation.Required.Error(emptyContent)),
	)
}

type credentialsInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c credentialsInput) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Username, validation.Required),
		validation.Field(&c.Password, validation.Required),
	)
}

// validate runs v and reports the first failing field as a *ValidationError.
// Values are checked trimmed; callers decide what gets stored.
func validate(v validation.Validatable) error {
	err := v.Validate()
	if err == nil {
		return nil
	}
	var fields validation.Errors
	if !errors.As(err, &fields) || len(fields) == 0 {
		return &ValidationError{Field: "input", Message: err.Error(), Err: err}
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	first := fields[names[0]]
	return &ValidationError{Field: names[0], Message: first.Error(), Err: err}
}

func newPostInput(title, content string) postInput {
	return postInput{Title: strings.TrimSpace(title), Content: strings.TrimSpace(content)}
}

func newContentInput(content string) contentInput {
	return contentInput{Content: strings.TrimSpace(content)}
}
