package app

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// newValidator - теги ввода собираются из констант длины, чтобы лимиты жили в одном месте
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	v.RegisterAlias("username", fmt.Sprintf("notblank,max=%d", UsernameMaxLen))
	v.RegisterAlias("user_email", fmt.Sprintf("notblank,max=%d", EmailMaxLen))
	v.RegisterAlias("post_title", fmt.Sprintf("notblank,max=%d", PostTitleMaxLen))
	v.RegisterAlias("post_content", fmt.Sprintf("notblank,max=%d", PostContentMaxLen))
	v.RegisterAlias("comment_content", fmt.Sprintf("notblank,max=%d", CommentContentMaxLen))
	return v
}

// check валидирует ввод и переводит первую ошибку в BadRequest
func (s *Service) check(in any) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) || len(fields) == 0 {
		return fmt.Errorf("validate input: %w", err)
	}
	fe := fields[0]
	switch fe.ActualTag() {
	case "max":
		return BadRequest(fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
	case "notblank", "required":
		return BadRequest(fe.Field() + " is required")
	}
	return BadRequest(fmt.Sprintf("%s is invalid", fe.Field()))
}
