package http

import (
	"errors"
	"fmt"
	"html/template"
	"path/filepath"
	"time"

	"github.com/mrlokans/fintrack/internal/entities"
	"github.com/mrlokans/fintrack/internal/services"
	"github.com/mrlokans/fintrack/internal/utils"
)

const displayDateLayout = "Jan 2, 2006"

// templateFuncs is shared by the page templates and the tests that render
// inline templates.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"money":        money,
		"signedMoney":  signedMoney,
		"percent":      percent,
		"displayDate":  displayDate,
		"inputDate":    inputDate,
		"formatPeriod": formatPeriodOrRaw,
		"categoryName": categoryName,
		"dict":         dict,
		"chartColor":   utils.ChartColor,
	}
}

// loadTemplates parses every page template under dir.
func loadTemplates(dir string) (*template.Template, error) {
	return template.New("").Funcs(templateFuncs()).ParseGlob(filepath.Join(dir, "*.html"))
}

// money renders "$1234.50", with the sign in front of the currency symbol.
func money(a entities.Amount) string {
	if a < 0 {
		return "-$" + (-a).String()
	}
	return "$" + a.String()
}

// signedMoney prefixes income with "+" and expense with "-".
func signedMoney(t entities.TransactionType, a entities.Amount) string {
	if t == entities.TransactionTypeIncome {
		return "+" + money(a)
	}
	return "-" + money(a)
}

func percent(v float64) string {
	return fmt.Sprintf("%.0f%%", v)
}

// backendDate accepts a plain date or an RFC 3339 timestamp.
func backendDate(s string) (time.Time, bool) {
	if len(s) >= len(services.DateLayout) {
		if t, err := time.Parse(services.DateLayout, s[:len(services.DateLayout)]); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func displayDate(s string) string {
	if t, ok := backendDate(s); ok {
		return t.Format(displayDateLayout)
	}
	return s
}

// inputDate is the value of an <input type="date">.
func inputDate(s string) string {
	if t, ok := backendDate(s); ok {
		return t.Format(services.DateLayout)
	}
	return ""
}

func formatPeriodOrRaw(period string) string {
	if formatted, err := services.FormatPeriod(period); err == nil {
		return formatted
	}
	return period
}

func categoryName(names map[uint]string, id uint) string {
	if name, ok := names[id]; ok {
		return name
	}
	return "Uncategorized"
}

func categoryNames(categories []entities.Category) map[uint]string {
	names := make(map[uint]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names
}

// dict builds a map from key/value pairs so a partial can receive more than
// one value.
func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, errors.New("dict needs key/value pairs")
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict key %v is not a string", pairs[i])
		}
		m[key] = pairs[i+1]
	}
	return m, nil
}
