package server

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/copyleftdev/rootfinder/internal/engine"
	"github.com/copyleftdev/rootfinder/internal/rootfind"
)

// SolveRequest is the body of POST /api/v1/solve and the params of the
// rootfind.solve RPC. Seeds are pointers so that an omitted seed can be told
// apart from a zero one.
type SolveRequest struct {
	Method        string   `json:"method" validate:"required,rootmethod"`
	Expression    string   `json:"expression" validate:"required"`
	Derivative    string   `json:"derivative,omitempty"`
	A             *float64 `json:"a,omitempty"`
	B             *float64 `json:"b,omitempty"`
	X0            *float64 `json:"x0,omitempty"`
	X1            *float64 `json:"x1,omitempty"`
	Delta         *float64 `json:"delta,omitempty" validate:"omitempty,ne=0"`
	Tolerance     *float64 `json:"tolerance,omitempty" validate:"omitempty,gt=0"`
	MaxIterations *int     `json:"max_iterations,omitempty" validate:"omitempty,gte=1"`
}

// requestValidate is the validator instance for solve requests.
var requestValidate *validator.Validate

func init() {
	requestValidate = validator.New()
	requestValidate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = requestValidate.RegisterValidation("rootmethod", validateMethod)
	requestValidate.RegisterStructValidation(validateSeeds, SolveRequest{})
}

func validateMethod(fl validator.FieldLevel) bool {
	_, err := rootfind.ParseMethod(fl.Field().String())
	return err == nil
}

// validateSeeds requires the seeds of the selected method.
func validateSeeds(sl validator.StructLevel) {
	req := sl.Current().Interface().(SolveRequest)
	m, err := rootfind.ParseMethod(req.Method)
	if err != nil {
		return
	}
	seeds := map[string]*float64{"a": req.A, "b": req.B, "x0": req.X0, "x1": req.X1}
	for _, name := range m.Seeds() {
		if name == "delta" {
			continue
		}
		if seeds[name] == nil {
			sl.ReportError(seeds[name], name, strings.ToUpper(name), "required_for", string(m))
		}
	}
}

// Validate checks the request and returns a readable message per failure.
func (r *SolveRequest) Validate() error {
	err := requestValidate.Struct(r)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", rootfind.ErrInvalidParameters, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "required_for":
		return fmt.Sprintf("%s is required for %s", fe.Field(), fe.Param())
	case "rootmethod":
		return fmt.Sprintf("unknown method %q", fe.Value())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "ne":
		return fmt.Sprintf("%s must not be %s", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
}

// EngineRequest converts a validated request. Omitted optional values stay
// zero so that the engine applies its defaults.
func (r *SolveRequest) EngineRequest() engine.Request {
	req := engine.Request{
		Method:     rootfind.Method(r.Method),
		Expression: r.Expression,
		Derivative: r.Derivative,
	}
	set := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	set(&req.A, r.A)
	set(&req.B, r.B)
	set(&req.X0, r.X0)
	set(&req.X1, r.X1)
	set(&req.Delta, r.Delta)
	set(&req.Tolerance, r.Tolerance)
	if r.MaxIterations != nil {
		req.MaxIterations = *r.MaxIterations
	}
	return req
}
