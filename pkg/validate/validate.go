// Package validate checks request structs against `validate` struct tags.
//
// Rules, comma-separated in the tag:
//
//	required            not zero/empty
//	nullable            empty skips the remaining rules
//	email               valid email address
//	alpha_dash          letters, digits, hyphens, underscores
//	numeric             any number
//	integer             whole number
//	min=N / max=N       string length or numeric value bounds
//	gt=N gte=N lte=N    numeric comparisons
//	in=a,b,c            one of the listed values
//
//	type AddToCartInput struct {
//	    ItemID uint `json:"itemId" validate:"required"`
//	    Qty    int  `json:"qty"    validate:"required,integer,gte=1"`
//	}
package validate

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// checker validates one field value against one rule's parameter.
// It returns "" when the value passes.
type checker func(field, param string, v reflect.Value) string

var checkers = map[string]checker{
	"required":   checkRequired,
	"email":      checkEmail,
	"alpha_dash": checkAlphaDash,
	"numeric":    checkNumeric,
	"integer":    checkInteger,
	"min":        checkMin,
	"max":        checkMax,
	"gt":         checkGT,
	"gte":        checkGTE,
	"lte":        checkLTE,
	"in":         checkIn,
}

// Struct validates every exported field of v carrying a `validate` tag and
// returns jsonFieldName → message for the first failing rule per field.
func Struct(v interface{}) map[string]string {
	errs := map[string]string{}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return errs
	}

	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		tag := field.Tag.Get("validate")
		if tag == "" {
			continue
		}

		value := rv.Field(i)
		name := jsonFieldName(field)
		rules := splitRules(tag)

		if hasRule(rules, "nullable") && isEmpty(value) {
			continue
		}

		for _, rule := range rules {
			if rule == "nullable" {
				continue
			}
			key, param, _ := strings.Cut(rule, "=")
			check, ok := checkers[key]
			if !ok {
				continue
			}
			if msg := check(name, param, value); msg != "" {
				errs[name] = msg
				break
			}
		}
	}

	return errs
}

// HasErrors reports whether Struct found anything.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

// ------------------- rule checkers -------------------

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func checkRequired(field, _ string, v reflect.Value) string {
	if isEmpty(v) {
		return fmt.Sprintf("The %s field is required.", field)
	}
	return ""
}

func checkEmail(field, _ string, v reflect.Value) string {
	if !emailRE.MatchString(asString(v)) {
		return fmt.Sprintf("The %s must be a valid email address.", field)
	}
	return ""
}

func checkAlphaDash(field, _ string, v reflect.Value) string {
	for _, c := range asString(v) {
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '-' && c != '_' {
			return fmt.Sprintf("The %s field may only contain letters, numbers, dashes, and underscores.", field)
		}
	}
	return ""
}

func checkNumeric(field, _ string, v reflect.Value) string {
	if _, err := strconv.ParseFloat(asString(v), 64); err != nil {
		return fmt.Sprintf("The %s field must be a number.", field)
	}
	return ""
}

func checkInteger(field, _ string, v reflect.Value) string {
	if _, err := strconv.ParseInt(asString(v), 10, 64); err != nil {
		return fmt.Sprintf("The %s field must be an integer.", field)
	}
	return ""
}

func checkMin(field, param string, v reflect.Value) string {
	n := parseBound(param)
	if isNumericKind(v) {
		if asFloat(v) < n {
			return fmt.Sprintf("The %s must be at least %s.", field, param)
		}
	} else if float64(len([]rune(asString(v)))) < n {
		return fmt.Sprintf("The %s must be at least %s characters.", field, param)
	}
	return ""
}

func checkMax(field, param string, v reflect.Value) string {
	n := parseBound(param)
	if isNumericKind(v) {
		if asFloat(v) > n {
			return fmt.Sprintf("The %s must not be greater than %s.", field, param)
		}
	} else if float64(len([]rune(asString(v)))) > n {
		return fmt.Sprintf("The %s must not exceed %s characters.", field, param)
	}
	return ""
}

func checkGT(field, param string, v reflect.Value) string {
	if asFloat(v) <= parseBound(param) {
		return fmt.Sprintf("The %s must be greater than %s.", field, param)
	}
	return ""
}

func checkGTE(field, param string, v reflect.Value) string {
	if asFloat(v) < parseBound(param) {
		return fmt.Sprintf("The %s must be greater than or equal to %s.", field, param)
	}
	return ""
}

func checkLTE(field, param string, v reflect.Value) string {
	if asFloat(v) > parseBound(param) {
		return fmt.Sprintf("The %s must be less than or equal to %s.", field, param)
	}
	return ""
}

func checkIn(field, param string, v reflect.Value) string {
	raw := asString(v)
	for _, a := range strings.Split(param, ",") {
		if raw == strings.TrimSpace(a) {
			return ""
		}
	}
	return fmt.Sprintf("The selected %s is invalid.", field)
}

// ------------------- value helpers -------------------

// isEmpty treats numeric zero as empty, so `required` rejects qty=0.
func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Bool:
		return false
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	}
	return false
}

func isNumericKind(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func asString(v reflect.Value) string {
	return fmt.Sprintf("%v", v.Interface())
}

func asFloat(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	case reflect.Float32, reflect.Float64:
		return v.Float()
	}
	f, _ := strconv.ParseFloat(asString(v), 64)
	return f
}

func parseBound(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return strings.ToLower(f.Name)
	}
	return name
}

// splitRules splits the tag on commas but keeps an in= value list whole:
// "required,in=user,admin,max=3" → ["required", "in=user,admin", "max=3"].
func splitRules(tag string) []string {
	var rules []string
	var cur strings.Builder
	inList := false

	for i := 0; i < len(tag); i++ {
		ch := tag[i]
		if ch == ',' {
			if inList && !startsKnownRule(tag[i+1:]) {
				cur.WriteByte(ch)
				continue
			}
			rules = append(rules, cur.String())
			cur.Reset()
			inList = false
			continue
		}
		cur.WriteByte(ch)
		if !inList && strings.HasSuffix(cur.String(), "in=") {
			inList = true
		}
	}
	if cur.Len() > 0 {
		rules = append(rules, cur.String())
	}
	return rules
}

func startsKnownRule(s string) bool {
	if strings.HasPrefix(s, "required") || strings.HasPrefix(s, "nullable") {
		return true
	}
	key, _, hasParam := strings.Cut(s, "=")
	if !hasParam {
		return s == "email" || s == "alpha_dash" || s == "numeric" || s == "integer"
	}
	// Only the prefix up to the first = can name a rule.
	if i := strings.IndexByte(key, ','); i >= 0 {
		key = key[:i]
	}
	_, ok := checkers[key]
	return ok
}

func hasRule(rules []string, target string) bool {
	for _, r := range rules {
		if strings.TrimSpace(r) == target {
			return true
		}
	}
	return false
}
