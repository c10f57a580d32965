package handler

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"regexp"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// productForm holds the text fields and photo files of an add or update request.
// Requests may be multipart forms (the admin panel) or JSON bodies without photos.
type productForm struct {
	values map[string]string
	photos []*multipart.FileHeader
}

func readProductForm(c echo.Context) (*productForm, error) {
	req := c.Request()
	form := &productForm{values: map[string]string{}}

	if strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		var raw map[string]interface{}
		if err := json.NewDecoder(req.Body).Decode(&raw); err != nil {
			return nil, err
		}
		for k, v := range raw {
			// JSON null, false, 0 and "" are not supplied values
			if isFalsy(v) {
				continue
			}
			form.values[k] = fmt.Sprint(v)
		}
		return form, nil
	}

	if strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		mf, err := c.MultipartForm()
		if err != nil {
			return nil, err
		}
		for k, vs := range mf.Value {
			if len(vs) > 0 {
				form.values[k] = vs[0]
			}
		}
		form.photos = mf.File["photos"]
		return form, nil
	}

	values, err := c.FormParams()
	if err != nil {
		return nil, err
	}
	for k, vs := range values {
		if len(vs) > 0 {
			form.values[k] = vs[0]
		}
	}
	return form, nil
}

// text returns the value of key; empty values count as absent
func (f *productForm) text(key string) (string, bool) {
	v, ok := f.values[key]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (f *productForm) textPtr(key string) *string {
	if v, ok := f.text(key); ok {
		return &v
	}
	return nil
}

func (f *productForm) textOr(key, def string) string {
	if v, ok := f.text(key); ok {
		return v
	}
	return def
}

// float parses the leading decimal of key, so "9.99kg" reads as 9.99; values without one count as absent
func (f *productForm) float(key string) *float64 {
	v, ok := f.text(key)
	if !ok {
		return nil
	}
	prefix := leadingDecimal.FindString(strings.TrimSpace(v))
	if prefix == "" {
		return nil
	}
	n, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		return nil
	}
	return &n
}

// int parses the leading integer of key, so "12abc" and "9.5" read as 12 and 9; values without one count as absent
func (f *productForm) int(key string) *int {
	v, ok := f.text(key)
	if !ok {
		return nil
	}
	prefix := leadingInteger.FindString(strings.TrimSpace(v))
	if prefix == "" {
		return nil
	}
	n, err := strconv.Atoi(prefix)
	if err != nil {
		return nil
	}
	return &n
}

var (
	leadingInteger = regexp.MustCompile(`^[+-]?\d+`)
	leadingDecimal = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
)

func isFalsy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return !t
	case float64:
		return t == 0
	case string:
		return t == ""
	}
	return false
}
