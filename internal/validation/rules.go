package validation

import "github.com/go-playground/validator/v10"

// rule checks one field of form F against a validator tag. When other is set
// the tag is a cross-field one (eqfield) compared against other's value.
type rule[F any] struct {
	field   string
	value   func(F) string
	other   func(F) string
	tag     string
	message string
}

const (
	msgUsernameMin   = "Username must be at least 3 characters"
	msgUsernameMax   = "Username must be at most 20 characters"
	msgUsernameChars = "Username can only contain letters, numbers, and underscores"
	msgEmail         = "Invalid email address"
	msgPasswordMin   = "Password must be at least 8 characters"
	msgPasswordUpper = "Password must contain at least one uppercase letter"
	msgPasswordLower = "Password must contain at least one lowercase letter"
	msgPasswordDigit = "Password must contain at least one number"
	msgPasswordMatch = "Passwords don't match"
)

func loginUsername(f LoginForm) string { return f.Username }
func loginPassword(f LoginForm) string { return f.Password }

var loginRules = []rule[LoginForm]{
	{field: "username", value: loginUsername, tag: "min=3", message: msgUsernameMin},
	{field: "password", value: loginPassword, tag: "min=8", message: msgPasswordMin},
}

func regUsername(f RegisterForm) string { return f.Username }
func regEmail(f RegisterForm) string    { return f.Email }
func regPassword(f RegisterForm) string { return f.Password }
func regConfirm(f RegisterForm) string  { return f.ConfirmPassword }

var registerRules = []rule[RegisterForm]{
	{field: "username", value: regUsername, tag: "min=3", message: msgUsernameMin},
	{field: "username", value: regUsername, tag: "max=20", message: msgUsernameMax},
	{field: "username", value: regUsername, tag: tagUsernameChars, message: msgUsernameChars},
	{field: "email", value: regEmail, tag: "email", message: msgEmail},
	{field: "password", value: regPassword, tag: "min=8", message: msgPasswordMin},
	{field: "password", value: regPassword, tag: tagHasUpper, message: msgPasswordUpper},
	{field: "password", value: regPassword, tag: tagHasLower, message: msgPasswordLower},
	{field: "password", value: regPassword, tag: tagHasDigit, message: msgPasswordDigit},
	{field: "confirmPassword", value: regConfirm, other: regPassword, tag: "eqfield", message: msgPasswordMatch},
}

func evaluate[F any](v *validator.Validate, form F, rules []rule[F]) Result {
	res := Result{Success: true}
	for _, r := range rules {
		var err error
		if r.other != nil {
			err = v.VarWithValue(r.value(form), r.other(form), r.tag)
		} else {
			err = v.Var(r.value(form), r.tag)
		}
		if err != nil {
			res.Success = false
			res.Errors = append(res.Errors, FieldError{Field: r.field, Message: r.message})
		}
	}
	return res
}
