package contact

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"
)

const (
	MaxMessageLength = 5000
	maxFieldLength   = 200
)

var ErrInvalidSubmission = errors.New("invalid contact submission")

type Submission struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Service      string `json:"service"`
	Message      string `json:"message"`
	CaptchaToken string `json:"captcha_token"`
}

// Normalize trims all fields and checks the required ones.
func (s *Submission) Normalize() error {
	s.Name = strings.TrimSpace(s.Name)
	s.Email = strings.TrimSpace(s.Email)
	s.Phone = strings.TrimSpace(s.Phone)
	s.Service = strings.TrimSpace(s.Service)
	s.Message = strings.TrimSpace(s.Message)
	s.CaptchaToken = strings.TrimSpace(s.CaptchaToken)

	switch {
	case s.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidSubmission)
	case s.Email == "":
		return fmt.Errorf("%w: email is required", ErrInvalidSubmission)
	case s.Message == "":
		return fmt.Errorf("%w: message is required", ErrInvalidSubmission)
	}

	if addr, err := mail.ParseAddress(s.Email); err != nil || addr.Address != s.Email {
		return fmt.Errorf("%w: email address invalid", ErrInvalidSubmission)
	}
	if utf8.RuneCountInString(s.Message) > MaxMessageLength {
		return fmt.Errorf("%w: message longer than %d characters", ErrInvalidSubmission, MaxMessageLength)
	}
	for field, value := range map[string]string{"name": s.Name, "phone": s.Phone, "service": s.Service} {
		if utf8.RuneCountInString(value) > maxFieldLength {
			return fmt.Errorf("%w: %s too long", ErrInvalidSubmission, field)
		}
		if strings.ContainsAny(value, "\r\n") {
			return fmt.Errorf("%w: %s contains line breaks", ErrInvalidSubmission, field)
		}
	}

	return nil
}
