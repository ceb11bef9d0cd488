// Package validation holds the job and newsletter schemas. Public submission,
// admin creation and bulk import all validate through ValidateJob so a job
// accepted on one path is accepted on every other.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/wadjakorntonsri/go-job-board/pkg/core/domain"
)

// JobInput is the caller-supplied part of a job posting
type JobInput struct {
	CompanyName    string `json:"companyName" validate:"required,min=2,max=100"`
	CompanyWebsite string `json:"companyWebsite" validate:"omitempty,url"`
	CompanyLogoURL string `json:"companyLogoUrl" validate:"omitempty,url"`
	Title          string `json:"title" validate:"required,min=5,max=100"`
	Description    string `json:"description" validate:"required,min=100,max=10000"`
	Category       string `json:"category" validate:"required,category"`
	Seniority      string `json:"seniority" validate:"required,seniority"`
	Industry       string `json:"industry" validate:"omitempty,min=2,max=50"`
	Location       string `json:"location" validate:"required,min=2,max=100"`
	LocationType   string `json:"locationType" validate:"required,locationtype"`
	Region         string `json:"region" validate:"required,region"`
	SalaryMin      *int64 `json:"salaryMin" validate:"omitempty,min=0"`
	SalaryMax      *int64 `json:"salaryMax" validate:"omitempty,min=0"`
	SalaryCurrency string `json:"salaryCurrency" validate:"required,currency"`
	ApplyURL       string `json:"applyUrl" validate:"required,url"`
	ContactEmail   string `json:"contactEmail" validate:"required,email"`
}

// NewsletterInput is the body of a newsletter signup
type NewsletterInput struct {
	Email string `json:"email" validate:"required,email"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	enums := map[string][]string{
		"category":     domain.Categories,
		"seniority":    domain.SeniorityLevels,
		"locationtype": domain.LocationTypes,
		"region":       domain.Regions,
		"currency":     domain.CurrencyCodes(),
	}
	for tag, values := range enums {
		allowed := values
		if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return contains(allowed, fl.Field().String())
		}); err != nil {
			panic(err)
		}
	}

	v.RegisterStructValidation(salaryRange, JobInput{})
	return v
}

func salaryRange(sl validator.StructLevel) {
	in := sl.Current().Interface().(JobInput)
	if in.SalaryMin != nil && in.SalaryMax != nil && *in.SalaryMin > 0 && *in.SalaryMax > 0 && *in.SalaryMin > *in.SalaryMax {
		sl.ReportError(in.SalaryMin, "salaryMin", "SalaryMin", "salaryrange", "")
	}
}

// Normalize trims surrounding whitespace and applies the defaults that hold
// on every entry path.
func (in *JobInput) Normalize() {
	for _, f := range []*string{
		&in.CompanyName, &in.CompanyWebsite, &in.CompanyLogoURL, &in.Title,
		&in.Category, &in.Seniority, &in.Industry, &in.Location,
		&in.LocationType, &in.Region, &in.SalaryCurrency, &in.ApplyURL,
		&in.ContactEmail,
	} {
		*f = strings.TrimSpace(*f)
	}
	if in.SalaryCurrency == "" {
		in.SalaryCurrency = domain.DefaultCurrency
	}
}

// ValidateJob checks in against the job schema after applying Normalize. It
// returns nil when the input is valid, otherwise field-keyed messages.
func ValidateJob(in JobInput) domain.FieldErrors {
	in.Normalize()
	return check(in)
}

// ValidateNewsletter checks a newsletter signup
func ValidateNewsletter(in NewsletterInput) domain.FieldErrors {
	return check(in)
}

func check(s interface{}) domain.FieldErrors {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	fe := domain.FieldErrors{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fe.Add("_form", err.Error())
		return fe
	}
	for _, e := range verrs {
		fe.Add(e.Field(), message(e))
	}
	return fe
}

// fieldMessages overrides the generic message for a field/tag pair.
var fieldMessages = map[string]map[string]string{
	"companyName": {"min": "Company name must be at least 2 characters"},
	"title":       {"min": "Title must be at least 5 characters"},
	"description": {"min": "Description must be at least 100 characters"},
	"location":    {"required": "Location is required", "min": "Location is required"},
	"applyUrl":    {"url": "Invalid apply URL"},
}

func message(e validator.FieldError) string {
	if m, ok := fieldMessages[e.Field()][e.Tag()]; ok {
		return m
	}

	switch e.Tag() {
	case "required":
		return "Required"
	case "min":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("Must be at least %s characters", e.Param())
		}
		return fmt.Sprintf("Must be greater than or equal to %s", e.Param())
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("Must be at most %s characters", e.Param())
		}
		return fmt.Sprintf("Must be less than or equal to %s", e.Param())
	case "url":
		return "Invalid URL"
	case "email":
		return "Invalid email"
	case "category":
		return enumMessage(domain.Categories)
	case "seniority":
		return enumMessage(domain.SeniorityLevels)
	case "locationtype":
		return enumMessage(domain.LocationTypes)
	case "region":
		return enumMessage(domain.Regions)
	case "currency":
		return enumMessage(domain.CurrencyCodes())
	case "salaryrange":
		return "Minimum salary cannot be greater than maximum"
	}
	return "Invalid value"
}

func enumMessage(values []string) string {
	return "Invalid value. Expected one of: " + strings.Join(values, ", ")
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
