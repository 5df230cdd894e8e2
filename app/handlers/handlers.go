// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"fmt"
	"strconv"
	"strings"

	businessflow "github.com/blachmet/cennik/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

func getValidationErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return err.Field() + " is required"
	case "min":
		return err.Field() + " must be at least " + err.Param()
	case "max":
		return err.Field() + " must be at most " + err.Param()
	case "oneof":
		return err.Field() + " must be one of: " + err.Param()
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", err.Field(), err.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", err.Field(), err.Param())
	case "dive":
		return err.Field() + " contains an invalid entry"
	default:
		return err.Field() + " is invalid"
	}
}

func validationDetails(err error) []string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}
	details := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		details = append(details, getValidationErrorMessage(fieldErr))
	}
	return details
}

// clientMetadata collects the request attribution the flows record on audit
// rows. The acting user is attached by the identity middleware.
func clientMetadata(c fiber.Ctx) *businessflow.ClientMetadata {
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.SetRequestID(c.Get("X-Request-ID"))
	if actor, ok := c.Locals("acting_user").(string); ok && actor != "" {
		metadata.SetActor(actor)
	}
	return metadata
}

// queryFloat parses an optional float query parameter. ok is false when the
// parameter is present but not numeric.
func queryFloat(c fiber.Ctx, name string) (*float64, bool) {
	v := c.Query(name)
	if v == "" {
		return nil, true
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, false
	}
	return &f, true
}

// queryUint parses an optional unsigned integer query parameter.
func queryUint(c fiber.Ctx, name string) (*uint, bool) {
	v := c.Query(name)
	if v == "" {
		return nil, true
	}
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return nil, false
	}
	u := uint(n)
	return &u, true
}

// queryInt parses an integer query parameter, falling back to def when the
// parameter is absent or malformed.
func queryInt(c fiber.Ctx, name string, def int) int {
	v := c.Query(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// queryBool parses a boolean query parameter with a default.
func queryBool(c fiber.Ctx, name string, def bool) bool {
	v := strings.ToLower(c.Query(name))
	switch v {
	case "":
		return def
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}

// queryCSV splits a comma-separated query parameter, dropping empty parts.
func queryCSV(c fiber.Ctx, name string) []string {
	v := c.Query(name)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// queryStringPtr returns the parameter value or nil when absent.
func queryStringPtr(c fiber.Ctx, name string) *string {
	v := c.Query(name)
	if v == "" {
		return nil
	}
	return &v
}
