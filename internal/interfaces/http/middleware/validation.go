package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sharadhiadiga/Elint/internal/domain/finance"
	"github.com/sharadhiadiga/Elint/internal/domain/order"
	"github.com/sharadhiadiga/Elint/internal/domain/trade"
	"github.com/sharadhiadiga/Elint/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
)

var setupOnce sync.Once

// enumTag is a custom validation tag for a domain enum
type enumTag struct {
	valid   func(string) bool
	message string
}

var enumTags = map[string]enumTag{
	"order_status": {
		valid:   func(s string) bool { return order.Status(s).IsValid() },
		message: "Must be a valid order status",
	},
	"payment_mode": {
		valid:   func(s string) bool { return finance.PaymentMode(s).IsValid() },
		message: "Must be one of: cash bank cheque upi card other",
	},
	"transaction_type": {
		valid:   func(s string) bool { return finance.TransactionType(s).IsValid() },
		message: "Must be one of: payment_in payment_out sale purchase expense income",
	},
	"discount_type": {
		valid: func(s string) bool {
			d := trade.DiscountType(s)
			return d == trade.DiscountPercentage || d == trade.DiscountFlat
		},
		message: "Must be one of: percentage flat",
	},
}

// SetupValidator configures gin's validator once: errors name JSON fields,
// decimals compare as numbers and the domain enum tags are registered.
func SetupValidator() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(jsonFieldName)
		v.RegisterCustomTypeFunc(func(field reflect.Value) any {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				return d.InexactFloat64()
			}
			return nil
		}, decimal.Decimal{})
		for tag, e := range enumTags {
			valid := e.valid
			_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
				return valid(fl.Field().String())
			})
		}
	})
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		name, _, _ = strings.Cut(fld.Tag.Get("form"), ",")
	}
	return name
}

// HandleValidationError aborts a failed bind with 400. Validation failures
// carry one detail per field; anything else is reported as unparseable JSON.
func HandleValidationError(c *gin.Context, err error) {
	requestID := c.GetString(RequestIDKey)

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeInvalidJSON, "Request body could not be parsed", requestID))
		return
	}

	details := make([]dto.ValidationDetail, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, dto.ValidationDetail{
			Field:   fieldPath(fe),
			Message: validationMessage(fe),
			Code:    fe.Tag(),
		})
	}
	c.AbortWithStatusJSON(http.StatusBadRequest,
		dto.NewValidationErrorResponse("Request validation failed", requestID, details))
}

// fieldPath drops the top-level struct name: "lines[0].quantity"
func fieldPath(fe validator.FieldError) string {
	if _, rest, ok := strings.Cut(fe.Namespace(), "."); ok {
		return rest
	}
	return fe.Field()
}

// comparisons are the numeric bound tags with the phrase each one needs
var comparisons = map[string]string{
	"gte": "greater than or equal to",
	"lte": "less than or equal to",
	"gt":  "greater than",
	"lt":  "less than",
}

func validationMessage(fe validator.FieldError) string {
	tag, param := fe.Tag(), fe.Param()
	if e, ok := enumTags[tag]; ok {
		return e.message
	}
	if phrase, ok := comparisons[tag]; ok {
		return fmt.Sprintf("Must be %s %s", phrase, param)
	}

	switch tag {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "uuid":
		return "Invalid UUID format"
	case "oneof":
		return "Must be one of: " + param
	case "len":
		return fmt.Sprintf("Must be exactly %s characters", param)
	case "min", "max":
		bound := "at least"
		if tag == "max" {
			bound = "at most"
		}
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("Must be %s %s characters", bound, param)
		case reflect.Slice:
			return fmt.Sprintf("Must contain %s %s entries", bound, param)
		}
		return fmt.Sprintf("Must be %s %s", bound, param)
	}
	return "Invalid value"
}
