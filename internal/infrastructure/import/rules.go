package csvimport

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// FieldType is the expected type of a column
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeInt     FieldType = "int"
	TypeDecimal FieldType = "decimal"
	TypeEmail   FieldType = "email"
)

// FieldRule describes one column
type FieldRule struct {
	Column    string
	Type      FieldType
	Required  bool
	MaxLength int
	// ExactLength applies when set; used for registration numbers
	ExactLength int
	NonNegative bool
	OneOf       []string
	// Unique rejects a value already seen earlier in the file (case-insensitive)
	Unique bool
}

// FieldRuleBuilder builds a FieldRule
type FieldRuleBuilder struct {
	rule FieldRule
}

// Field starts a rule for column; the default type is string
func Field(column string) *FieldRuleBuilder {
	return &FieldRuleBuilder{rule: FieldRule{Column: column, Type: TypeString}}
}

func (b *FieldRuleBuilder) Required() *FieldRuleBuilder {
	b.rule.Required = true
	return b
}

func (b *FieldRuleBuilder) Int() *FieldRuleBuilder {
	b.rule.Type = TypeInt
	return b
}

func (b *FieldRuleBuilder) Decimal() *FieldRuleBuilder {
	b.rule.Type = TypeDecimal
	return b
}

func (b *FieldRuleBuilder) Email() *FieldRuleBuilder {
	b.rule.Type = TypeEmail
	return b
}

func (b *FieldRuleBuilder) MaxLength(n int) *FieldRuleBuilder {
	b.rule.MaxLength = n
	return b
}

func (b *FieldRuleBuilder) Length(n int) *FieldRuleBuilder {
	b.rule.ExactLength = n
	return b
}

func (b *FieldRuleBuilder) NonNegative() *FieldRuleBuilder {
	b.rule.NonNegative = true
	return b
}

func (b *FieldRuleBuilder) OneOf(values ...string) *FieldRuleBuilder {
	b.rule.OneOf = values
	return b
}

func (b *FieldRuleBuilder) Unique() *FieldRuleBuilder {
	b.rule.Unique = true
	return b
}

func (b *FieldRuleBuilder) Build() FieldRule {
	return b.rule
}

// RowValidator checks rows against a rule set and remembers unique values
type RowValidator struct {
	rules    []FieldRule
	validate *validator.Validate
	seen     map[string]map[string]int
}

// NewRowValidator creates a validator for rules
func NewRowValidator(rules []FieldRule) *RowValidator {
	return &RowValidator{
		rules:    rules,
		validate: validator.New(),
		seen:     make(map[string]map[string]int),
	}
}

// RequiredColumns lists the columns a file must have
func (v *RowValidator) RequiredColumns() []string {
	var cols []string
	for _, r := range v.rules {
		if r.Required {
			cols = append(cols, r.Column)
		}
	}
	return cols
}

// Validate adds every problem in row to errs and reports whether the row is clean
func (v *RowValidator) Validate(row *Row, errs *ErrorCollection) bool {
	ok := true
	fail := func(rule FieldRule, code, msg, value string) {
		errs.Add(RowError{Line: row.Line, Column: rule.Column, Code: code, Message: msg, Value: value})
		ok = false
	}

	for _, rule := range v.rules {
		value := row.Get(rule.Column)
		if value == "" {
			if rule.Required {
				fail(rule, ErrCodeRequired, "value is required", "")
			}
			continue
		}

		if n := utf8.RuneCountInString(value); rule.MaxLength > 0 && n > rule.MaxLength {
			fail(rule, ErrCodeInvalidLength, fmt.Sprintf("must be at most %d characters", rule.MaxLength), value)
			continue
		} else if rule.ExactLength > 0 && n != rule.ExactLength {
			fail(rule, ErrCodeInvalidLength, fmt.Sprintf("must be exactly %d characters", rule.ExactLength), value)
			continue
		}

		switch rule.Type {
		case TypeInt:
			n, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				fail(rule, ErrCodeInvalidType, "must be a whole number", value)
				continue
			}
			if rule.NonNegative && n < 0 {
				fail(rule, ErrCodeInvalidValue, "must not be negative", value)
				continue
			}
		case TypeDecimal:
			d, err := decimal.NewFromString(value)
			if err != nil {
				fail(rule, ErrCodeInvalidType, "must be a number", value)
				continue
			}
			if rule.NonNegative && d.IsNegative() {
				fail(rule, ErrCodeInvalidValue, "must not be negative", value)
				continue
			}
		case TypeEmail:
			if err := v.validate.Var(value, "email"); err != nil {
				fail(rule, ErrCodeInvalidType, "must be an email address", value)
				continue
			}
		}

		if len(rule.OneOf) > 0 && !containsFold(rule.OneOf, value) {
			fail(rule, ErrCodeInvalidValue, "must be one of "+strings.Join(rule.OneOf, ", "), value)
			continue
		}

		if rule.Unique {
			key := strings.ToLower(value)
			if v.seen[rule.Column] == nil {
				v.seen[rule.Column] = make(map[string]int)
			}
			if first, dup := v.seen[rule.Column][key]; dup {
				fail(rule, ErrCodeDuplicateInFile, fmt.Sprintf("duplicate of line %d", first), value)
				continue
			}
			v.seen[rule.Column][key] = row.Line
		}
	}
	return ok
}

func containsFold(values []string, v string) bool {
	for _, s := range values {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}
