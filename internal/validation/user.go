package validation

import (
	"math"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/restdemo/userapi/internal/handler/dto"
	"github.com/restdemo/userapi/internal/model"
)

// Field names as they appear in request bodies.
const (
	FieldName  = "name"
	FieldEmail = "email"
	FieldAge   = "age"
)

// ValidateCreateUser checks a create request and converts it to store input.
func ValidateCreateUser(req dto.CreateUserRequest) (model.CreateUserInput, Result) {
	var res Result

	if !rejectNull(&res, req, FieldName) {
		validateName(&res, req.Name)
	}
	if !rejectNull(&res, req, FieldEmail) {
		validateEmail(&res, req.Email)
	}
	var age *int
	if !rejectNull(&res, req, FieldAge) {
		age = validateAge(&res, req.Age)
	}

	return model.CreateUserInput{
		Name:  req.Name,
		Email: req.Email,
		Age:   age,
	}, res
}

// ValidateUpdateUser checks a partial update. Only present fields are checked;
// an update with no fields is valid and only refreshes updatedAt.
// A field sent as null is rejected: null cannot clear a field.
func ValidateUpdateUser(req dto.UpdateUserRequest) (model.UpdateUserInput, Result) {
	var res Result
	var in model.UpdateUserInput

	if !rejectNull(&res, req, FieldName) && req.Name != nil {
		validateName(&res, *req.Name)
		in.Name = req.Name
	}
	if !rejectNull(&res, req, FieldEmail) && req.Email != nil {
		validateEmail(&res, *req.Email)
		in.Email = req.Email
	}
	if !rejectNull(&res, req, FieldAge) {
		in.Age = validateAge(&res, req.Age)
	}

	return in, res
}

// rejectNull records ErrNotNull and reports true when field was sent as null.
func rejectNull(res *Result, req interface{ IsNull(string) bool }, field string) bool {
	if !req.IsNull(field) {
		return false
	}
	res.Add(field, ErrNotNull)
	return true
}

func validateName(res *Result, name string) {
	if name == "" {
		res.Add(FieldName, ErrEmpty)
		return
	}
	if utf8.RuneCountInString(name) > model.MaxNameLength {
		res.Add(FieldName, ErrTooLong)
	}
}

func validateEmail(res *Result, email string) {
	if email == "" {
		res.Add(FieldEmail, ErrRequired)
		return
	}
	if !IsValidEmail(email) {
		res.Add(FieldEmail, ErrInvalidEmail)
	}
}

func validateAge(res *Result, age *float64) *int {
	if age == nil {
		return nil
	}
	v := *age
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		res.Add(FieldAge, ErrNotInteger)
		return nil
	}
	if v < model.MinAge || v > model.MaxAge {
		res.Add(FieldAge, ErrOutOfRange)
		return nil
	}
	n := int(v)
	return &n
}

// IsValidEmail reports whether s is a bare addr-spec with a dotted domain
// ending in an alphabetic TLD of at least two letters, e.g. "john@example.com".
// Display-name forms are rejected.
func IsValidEmail(s string) bool {
	if strings.ContainsAny(s, " \t\r\n") {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || addr.Name != "" {
		return false
	}
	at := strings.LastIndex(s, "@")
	if at <= 0 {
		return false
	}
	domain := s[at+1:]
	dot := strings.LastIndex(domain, ".")
	if dot <= 0 {
		return false
	}
	return isTLD(domain[dot+1:])
}

// isTLD accepts two or more ASCII letters.
func isTLD(s string) bool {
	if len(s) < 2 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i] | 0x20
		if c < 'a' || c > 'z' {
			return false
		}
	}
	return true
}
