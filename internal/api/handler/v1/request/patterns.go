package request

import (
	"errors"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	validation "github.com/go-ozzo/ozzo-validation"
)

// Patterns are compiled in ECMAScript mode so they behave like the ones the web client
// validates with.
const (
	emailRegexPattern    = `^\w+([\.-]?\w+)*@\w+([\.-]?\w+)*(\.\w{2,3})+$`
	passwordRegexPattern = `^(?=.*\S).{6,}$`
	expiryRegexPattern   = `^(0[1-9]|1[0-2])\/\d{2}$`
	timeRegexPattern     = `^([01]\d|2[0-3]):[0-5]\d$`
	cardRegexPattern     = `^\d{16}$`
	cvvRegexPattern      = `^\d{3,4}$`
)

const matchTimeout = 100 * time.Millisecond

var (
	errInvalidEmail    = errors.New("Please provide a valid email address")
	errInvalidPassword = errors.New("Password must be at least 6 characters")
	errInvalidExpiry   = errors.New("Invalid expiry date format (MM/YY)")
	errInvalidTime     = errors.New("Time must be in HH:MM format")
	errInvalidCard     = errors.New("Card number must contain 16 digits")
	errInvalidCVV      = errors.New("CVV must contain 3 or 4 digits")
)

var (
	emailRule    = matchRule(emailRegexPattern, errInvalidEmail, strings.TrimSpace)
	passwordRule = matchRule(passwordRegexPattern, errInvalidPassword, nil)
	expiryRule   = matchRule(expiryRegexPattern, errInvalidExpiry, nil)
	timeRule     = matchRule(timeRegexPattern, errInvalidTime, nil)
	cardRule     = matchRule(cardRegexPattern, errInvalidCard, stripSpaces)
	cvvRule      = matchRule(cvvRegexPattern, errInvalidCVV, nil)
)

func stripSpaces(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), " ", "")
}

// matchRule builds a rule for string and *string fields. Empty values pass so the
// rule composes with validation.Required.
func matchRule(pattern string, errMismatch error, normalize func(string) string) validation.Rule {
	re := regexp2.MustCompile(pattern, regexp2.ECMAScript)
	re.MatchTimeout = matchTimeout

	return validation.By(func(value interface{}) error {
		v, isNil := validation.Indirect(value)
		if isNil {
			return nil
		}
		s, ok := v.(string)
		if !ok {
			return errors.New("must be a string")
		}
		if normalize != nil {
			s = normalize(s)
		}
		if s == "" {
			return nil
		}

		matched, err := re.MatchString(s)
		if err != nil || !matched {
			return errMismatch
		}

		return nil
	})
}
