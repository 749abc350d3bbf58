package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"loan-predict/internal/domain"
)

const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// decodeJSON reads a JSON body into dst and runs its validate tags.
// Problems come back as ValidationErrors.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	return decodeJSONBody(w, r, dst, true)
}

// decodeJSONLenient is decodeJSON without the unknown-field check.
func decodeJSONLenient(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	return decodeJSONBody(w, r, dst, false)
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}, strict bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.ErrValidation("request body is required")
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return domain.ErrValidation("%s has the wrong type", typeErr.Field)
		}
		return domain.ErrValidation("invalid request body")
	}
	return validateStruct(dst)
}

func validateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return domain.ErrValidation("invalid request body")
	}
	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return domain.ErrValidation("%s is required", fe.Field())
	case "email":
		return domain.ErrValidation("%s must be a valid email address", fe.Field())
	case "max":
		return domain.ErrValidation("%s must be at most %s characters long", fe.Field(), fe.Param())
	case "oneof":
		return domain.ErrValidation("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return domain.ErrValidation("%s is invalid", fe.Field())
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// pageFromQuery extracts a PageRequest from the max_results and page_token
// query parameters.
func pageFromQuery(r *http.Request) (domain.PageRequest, error) {
	q := r.URL.Query()
	p := domain.PageRequest{PageToken: q.Get("page_token")}
	if v := q.Get("max_results"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return p, domain.ErrValidation("max_results must be a non-negative integer")
		}
		p.MaxResults = n
	}
	return p, nil
}

// nextPageToken returns the token for the page after p, or "" on the last page.
func nextPageToken(p domain.PageRequest, total int64) string {
	return domain.NextPageToken(p.Offset(), p.Limit(), total)
}

// === Views ===

type accountView struct {
	ID       int64       `json:"id"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     domain.Role `json:"role"`
	IsActive bool        `json:"is_active"`
}

func accountToAPI(a domain.Account) accountView {
	return accountView{
		ID:       a.ID,
		Username: a.Username,
		Email:    a.Email,
		Role:     a.Role,
		IsActive: a.IsActive,
	}
}

// flexString accepts a JSON string or number. NAICS sector codes arrive as
// either.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*s = flexString(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return fmt.Errorf("expected string or number: %w", err)
	}
	*s = flexString(num.String())
	return nil
}

type loanFeaturesBody struct {
	GrAppv       float64    `json:"GrAppv"`
	Term         float64    `json:"Term"`
	State        string     `json:"State" validate:"required"`
	NAICSSectors flexString `json:"NAICS_Sectors" validate:"required"`
	New          string     `json:"New" validate:"required"`
	Franchise    string     `json:"Franchise" validate:"required"`
	NoEmp        float64    `json:"NoEmp"`
	RevLineCr    string     `json:"RevLineCr" validate:"required"`
	LowDoc       string     `json:"LowDoc" validate:"required"`
	Rural        string     `json:"Rural" validate:"required"`
}

func (b loanFeaturesBody) toDomain() domain.LoanFeatures {
	return domain.LoanFeatures{
		GrAppv:       b.GrAppv,
		Term:         b.Term,
		State:        b.State,
		NAICSSectors: string(b.NAICSSectors),
		New:          b.New,
		Franchise:    b.Franchise,
		NoEmp:        b.NoEmp,
		RevLineCr:    b.RevLineCr,
		LowDoc:       b.LowDoc,
		Rural:        b.Rural,
	}
}

type loanView struct {
	ID           int64     `json:"id"`
	AccountID    int64     `json:"account_id"`
	GrAppv       float64   `json:"GrAppv"`
	Term         float64   `json:"Term"`
	State        string    `json:"State"`
	NAICSSectors string    `json:"NAICS_Sectors"`
	New          string    `json:"New"`
	Franchise    string    `json:"Franchise"`
	NoEmp        float64   `json:"NoEmp"`
	RevLineCr    string    `json:"RevLineCr"`
	LowDoc       string    `json:"LowDoc"`
	Rural        string    `json:"Rural"`
	Approved     bool      `json:"approved"`
	CreatedAt    time.Time `json:"created_at"`
}

func loanToAPI(l domain.LoanRequest) loanView {
	f := l.Features
	return loanView{
		ID:           l.ID,
		AccountID:    l.AccountID,
		GrAppv:       f.GrAppv,
		Term:         f.Term,
		State:        f.State,
		NAICSSectors: f.NAICSSectors,
		New:          f.New,
		Franchise:    f.Franchise,
		NoEmp:        f.NoEmp,
		RevLineCr:    f.RevLineCr,
		LowDoc:       f.LowDoc,
		Rural:        f.Rural,
		Approved:     l.Approved,
		CreatedAt:    l.CreatedAt,
	}
}
