package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"tally-server/src/models"
	"tally-server/src/services"
	"tally-server/src/util"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("hexcolor6", func(fl validator.FieldLevel) bool {
		return util.ValidateHexColor(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be null"
	case "notblank":
		return "must not be blank"
	case "email":
		return "must be a well-formed email address"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "gt":
		return "must be greater than " + fe.Param()
	case "hexcolor6":
		return "must be a hex color like #1a2b3c"
	case "min":
		if fe.Kind() == reflect.String {
			return "size must be at least " + fe.Param()
		}
		return "must be greater than or equal to " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return "size must be at most " + fe.Param()
		}
		return "must be less than or equal to " + fe.Param()
	}
	return "is invalid"
}

// decodeJSON reads the request body into dst and runs its validate tags.
// Malformed bodies are a BadRequest, tag failures a Validation error.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return services.BadRequest("Malformed JSON request: %v", err)
	}
	err := validate.Struct(dst)
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		details := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			details = append(details, fe.Field()+": "+fieldMessage(fe))
		}
		return services.Validation(details...)
	}
	return err
}

// checkAmount validates a decimal field against NUMERIC(12,2).
func checkAmount(details []string, field string, d *decimal.Decimal, required bool) []string {
	if d == nil {
		if required {
			details = append(details, field+": must not be null")
		}
		return details
	}
	if !models.CheckAmountDigits(*d, 10, 2) {
		details = append(details, field+": numeric value out of bounds (<10 digits>.<2 digits> expected)")
	}
	return details
}

func checkNotFuture(details []string, field string, d *models.Date) []string {
	if d != nil && d.Time.After(models.NewDate(time.Now()).Time) {
		details = append(details, field+": must be a date in the past or in the present")
	}
	return details
}

func validationResult(details []string) error {
	if len(details) > 0 {
		return services.Validation(details...)
	}
	return nil
}

func idParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, services.BadRequest("Invalid value '%s' for parameter '%s'", raw, name)
	}
	return id, nil
}

func intQuery(r *http.Request, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, services.BadRequest("Invalid value '%s' for parameter '%s'", raw, name)
	}
	return n, nil
}

func optionalIntQuery(r *http.Request, name string) (*int, error) {
	if strings.TrimSpace(r.URL.Query().Get(name)) == "" {
		return nil, nil
	}
	n, err := intQuery(r, name, 0)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func dateQuery(r *http.Request, name string) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return time.Time{}, services.BadRequest("Required parameter '%s' is missing", name)
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		return time.Time{}, services.BadRequest("Invalid value '%s' for parameter '%s'", raw, name)
	}
	return d.Time, nil
}

func dateRangeQuery(r *http.Request) (time.Time, time.Time, error) {
	start, err := dateQuery(r, "startDate")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := dateQuery(r, "endDate")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// pageQuery reads page, size, sortBy and sortDir. Range checks are left to
// the service.
func pageQuery(r *http.Request) (models.PageRequest, error) {
	page, err := intQuery(r, "page", 0)
	if err != nil {
		return models.PageRequest{}, err
	}
	size, err := intQuery(r, "size", models.DefaultPageSize)
	if err != nil {
		return models.PageRequest{}, err
	}
	q := r.URL.Query()
	return models.PageRequest{
		Page:    page,
		Size:    size,
		SortBy:  strings.TrimSpace(q.Get("sortBy")),
		SortDir: models.ParseSortDirection(q.Get("sortDir")),
	}, nil
}
