// Package validation checks login and registration forms before they reach
// the network. Each form has an ordered rule list; every rule is evaluated so
// callers get all violations at once.
package validation

import (
	"fmt"
	"regexp"

	"web_portal/internal/models"

	"github.com/go-playground/validator/v10"
)

// FieldError is one violated rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result is the outcome of validating a form.
type Result struct {
	Success bool         `json:"success"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// For returns the messages attached to field, in rule order.
func (r Result) For(field string) []string {
	var out []string
	for _, e := range r.Errors {
		if e.Field == field {
			out = append(out, e.Message)
		}
	}
	return out
}

// Fields lists the distinct failing fields in the order they first failed.
func (r Result) Fields() []string {
	seen := make(map[string]bool, len(r.Errors))
	var out []string
	for _, e := range r.Errors {
		if !seen[e.Field] {
			seen[e.Field] = true
			out = append(out, e.Field)
		}
	}
	return out
}

// LoginForm is the login form as submitted.
type LoginForm struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Request converts the form to the backend payload.
func (f LoginForm) Request() models.LoginRequest {
	return models.LoginRequest{Username: f.Username, Password: f.Password}
}

// RegisterForm is the registration form as submitted.
type RegisterForm struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Request converts the form to the backend payload; confirmPassword stays local.
func (f RegisterForm) Request() models.RegisterRequest {
	return models.RegisterRequest{Username: f.Username, Email: f.Email, Password: f.Password}
}

// Custom validator tags.
const (
	tagUsernameChars = "username_chars"
	tagHasUpper      = "has_upper"
	tagHasLower      = "has_lower"
	tagHasDigit      = "has_digit"
)

var (
	usernameCharsRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	upperRe         = regexp.MustCompile(`[A-Z]`)
	lowerRe         = regexp.MustCompile(`[a-z]`)
	digitRe         = regexp.MustCompile(`[0-9]`)
)

// Validator evaluates form rules. It is safe for concurrent use.
type Validator struct {
	v *validator.Validate
}

// New builds a Validator with the portal's custom tags registered.
func New() *Validator {
	v := validator.New()
	for tag, re := range map[string]*regexp.Regexp{
		tagUsernameChars: usernameCharsRe,
		tagHasUpper:      upperRe,
		tagHasLower:      lowerRe,
		tagHasDigit:      digitRe,
	} {
		mustRegister(v, tag, matches(re))
	}
	return &Validator{v: v}
}

// mustRegister panics when a custom tag cannot be registered; a missing tag
// would otherwise reject every input.
func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %q: %v", tag, err))
	}
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

// Login validates a login form.
func (v *Validator) Login(f LoginForm) Result {
	return evaluate(v.v, f, loginRules)
}

// Register validates a registration form, including the password
// confirmation match reported on confirmPassword.
func (v *Validator) Register(f RegisterForm) Result {
	return evaluate(v.v, f, registerRules)
}
