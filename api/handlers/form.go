package handlers

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/cardio-risk/internal/encoder"
	"github.com/OldStager01/cardio-risk/pkg/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the form and result pages.
func Templates() *template.Template {
	funcs := template.FuncMap{
		"percent": func(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) + "%" },
		"signed":  func(v float64) string { return fmt.Sprintf("%+g", v) },
	}
	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
}

type formField struct {
	Feature string
	Name    string
	Kind    string
	Labels  []string
	Bounds  *encoder.Bounds
	Value   string
}

type formPage struct {
	Fields []formField
	Error  string
	Field  string
	Report *models.Report
}

type FormHandler struct {
	predict *PredictHandler
}

func NewFormHandler(predict *PredictHandler) *FormHandler {
	return &FormHandler{predict: predict}
}

func formFields(values models.PatientFeatures) []formField {
	opts := encoder.Options()
	fields := make([]formField, len(opts))
	for i, o := range opts {
		f := formField{
			Feature: string(o.Feature),
			Name:    o.Name,
			Kind:    o.Kind,
			Labels:  o.Labels,
			Bounds:  o.Bounds,
		}
		if label, ok := values.Label(o.Feature); ok {
			f.Value = label
		} else if v, ok := values.Numeric(o.Feature); ok {
			f.Value = strconv.FormatFloat(v, 'f', -1, 64)
		}
		fields[i] = f
	}
	return fields
}

// parseForm reads the thirteen posted fields. Numbers that do not parse are
// ErrInvalidNumeric; labels are checked later by the encoder.
func parseForm(c *gin.Context) (models.PatientFeatures, error) {
	var p models.PatientFeatures
	for _, f := range models.FeatureOrder {
		raw := c.PostForm(string(f))
		if models.IsCategorical(f) {
			p.SetLabel(f, raw)
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return p, &encoder.FieldError{Feature: f, Value: raw, Err: encoder.ErrInvalidNumeric}
		}
		p.SetNumeric(f, v)
	}
	return p, nil
}

// Show godoc
// @Summary Risk assessment form
// @Tags Form
// @Produce html
// @Success 200 {string} string "HTML page"
// @Router / [get]
func (h *FormHandler) Show(c *gin.Context) {
	c.HTML(http.StatusOK, "form.html", formPage{Fields: formFields(encoder.Defaults())})
}

// Submit godoc
// @Summary Submit the form
// @Tags Form
// @Accept x-www-form-urlencoded
// @Produce html
// @Success 200 {string} string "Result page"
// @Failure 400 {string} string "Form with the error shown"
// @Router / [post]
func (h *FormHandler) Submit(c *gin.Context) {
	features, err := parseForm(c)
	if err == nil {
		var rep *models.Report
		rep, err = h.predict.Evaluate(c.Request.Context(), features)
		if err == nil {
			c.HTML(http.StatusOK, "result.html", formPage{Report: rep})
			return
		}
	}

	status, resp := errorResponse(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.HTML(status, "form.html", formPage{
		Fields: formFields(features),
		Error:  resp.Error,
		Field:  resp.Field,
	})
}
