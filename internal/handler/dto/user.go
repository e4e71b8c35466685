// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/restdemo/userapi/internal/model"
)

// CreateUserRequest represents the request body for creating a user.
// Age is decoded as a number so that non-integers can be reported as
// validation failures instead of decode errors.
type CreateUserRequest struct {
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Age   *float64 `json:"age,omitempty"`

	// Nulls holds the lowercased keys the body set to an explicit null.
	Nulls map[string]bool `json:"-"`
}

// UnmarshalJSON decodes the body and records explicit nulls.
func (r *CreateUserRequest) UnmarshalJSON(data []byte) error {
	type plain CreateUserRequest
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = CreateUserRequest(p)
	r.Nulls = nullKeys(data)
	return nil
}

// IsNull reports whether field was sent as an explicit null.
func (r CreateUserRequest) IsNull(field string) bool {
	return r.Nulls[field]
}

// UpdateUserRequest represents the request body for updating a user.
// Absent fields are left unchanged.
type UpdateUserRequest struct {
	Name  *string  `json:"name,omitempty"`
	Email *string  `json:"email,omitempty"`
	Age   *float64 `json:"age,omitempty"`

	// Nulls holds the lowercased keys the body set to an explicit null.
	// A null field is not the same as an absent one.
	Nulls map[string]bool `json:"-"`
}

// UnmarshalJSON decodes the body and records explicit nulls.
func (r *UpdateUserRequest) UnmarshalJSON(data []byte) error {
	type plain UpdateUserRequest
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = UpdateUserRequest(p)
	r.Nulls = nullKeys(data)
	return nil
}

// IsNull reports whether field was sent as an explicit null.
func (r UpdateUserRequest) IsNull(field string) bool {
	return r.Nulls[field]
}

// nullKeys returns the top-level object keys whose value is null.
// Keys are lowercased since field matching is case-insensitive.
func nullKeys(data []byte) map[string]bool {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	var nulls map[string]bool
	for k, v := range raw {
		if !bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			continue
		}
		if nulls == nil {
			nulls = make(map[string]bool)
		}
		nulls[strings.ToLower(k)] = true
	}
	return nulls
}

// Response is the uniform envelope returned by every endpoint.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Pagination describes one page of a paginated listing.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// UserPage is the data payload of paginated user responses.
type UserPage struct {
	Items      []*model.User `json:"items"`
	Pagination Pagination    `json:"pagination"`
}

// Success builds a successful envelope.
func Success(message string, data any) Response {
	return Response{Success: true, Message: message, Data: data}
}

// Failure builds an error envelope.
func Failure(message, errMsg string) Response {
	return Response{Success: false, Message: message, Error: errMsg}
}

// ToUserPage wraps users with pagination metadata.
func ToUserPage(users []*model.User, page, limit, total, totalPages int) UserPage {
	if users == nil {
		users = []*model.User{}
	}
	return UserPage{
		Items: users,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}
}
