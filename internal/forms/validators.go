package forms

import (
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	errCardNumber = errors.New("Enter a valid credit card number.")
	errExpiry     = errors.New("Enter a valid expiration date (MM/YY or MM/YYYY).")
	errExpired    = errors.New("This card has expired.")
	errCardCode   = errors.New("Enter a valid card security code.")
	errEmail      = errors.New("Enter a valid email address.")
	errAmount     = errors.New("Enter a valid positive amount.")
)

var expiryPattern = regexp.MustCompile(`^(\d{1,2})\s*/\s*(\d{2}|\d{4})$`)

// now is swapped in tests.
var now = time.Now

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// luhnValid runs the mod-10 check over a digit string.
func luhnValid(number string) bool {
	sum, dbl := 0, false
	for i := len(number) - 1; i >= 0; i-- {
		d := int(number[i] - '0')
		if dbl {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		dbl = !dbl
	}
	return sum%10 == 0
}

// CleanCardNumber strips spaces and dashes and checks length and checksum.
func CleanCardNumber(value string) (string, error) {
	number := strings.NewReplacer(" ", "", "-", "").Replace(value)
	if !isDigits(number) || len(number) < 13 || len(number) > 16 {
		return "", errCardNumber
	}
	if !luhnValid(number) {
		return "", errCardNumber
	}
	return number, nil
}

// parseExpiry accepts MM/YY or MM/YYYY and rejects months already over.
func parseExpiry(value string) (month, year int, err error) {
	m := expiryPattern.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil {
		return 0, 0, errExpiry
	}
	month, _ = strconv.Atoi(m[1])
	year, _ = strconv.Atoi(m[2])
	if month < 1 || month > 12 {
		return 0, 0, errExpiry
	}
	if len(m[2]) == 2 {
		year += 2000
	}

	current := now()
	if year < current.Year() || (year == current.Year() && month < int(current.Month())) {
		return 0, 0, errExpired
	}
	return month, year, nil
}

// CleanExpiryMMYY normalizes an expiry to the MMYY form AIM expects.
func CleanExpiryMMYY(value string) (string, error) {
	month, year, err := parseExpiry(value)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d%02d", month, year%100), nil
}

// CleanExpiryYearMonth normalizes an expiry to the YYYY-MM form CIM expects.
func CleanExpiryYearMonth(value string) (string, error) {
	month, year, err := parseExpiry(value)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d-%02d", year, month), nil
}

func CleanCardCode(value string) (string, error) {
	if !isDigits(value) || len(value) < 3 || len(value) > 4 {
		return "", errCardCode
	}
	return value, nil
}

func CleanEmail(value string) (string, error) {
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return "", errEmail
	}
	return value, nil
}

// CleanAmount requires a positive amount and formats it with two decimals.
func CleanAmount(value string) (string, error) {
	d, err := decimal.NewFromString(value)
	if err != nil || !d.IsPositive() {
		return "", errAmount
	}
	return d.StringFixed(2), nil
}

// MaxLength bounds free-text fields to the gateway's column widths.
func MaxLength(n int) Cleaner {
	return func(value string) (string, error) {
		if len(value) > n {
			return "", fmt.Errorf("Ensure this value has at most %d characters.", n)
		}
		return value, nil
	}
}
