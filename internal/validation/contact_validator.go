package validation

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/noah-isme/portfolio-api/internal/dto"
)

const contactSchemaURL = "contact_submission.json"

//go:embed schema/contact_submission.json
var contactSchema []byte

// Issue locates a single problem with a request body.
type Issue struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// Error is returned when a payload does not satisfy the contact submission schema.
type Error struct {
	Issues []Issue
}

func (e *Error) Error() string {
	if len(e.Issues) == 0 {
		return "invalid payload"
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, fmt.Sprintf("%s: %s", strings.Join(issue.Loc, "."), issue.Msg))
	}
	return strings.Join(parts, "; ")
}

// ContactValidator turns raw request bodies into validated contact requests.
type ContactValidator struct {
	schema   *jsonschema.Schema
	validate *validator.Validate
}

// NewContactValidator compiles the embedded JSON schema and registers json field names on validate.
func NewContactValidator(validate *validator.Validate) (*ContactValidator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = true
	if err := compiler.AddResource(contactSchemaURL, bytes.NewReader(contactSchema)); err != nil {
		return nil, fmt.Errorf("load contact schema: %w", err)
	}

	schema, err := compiler.Compile(contactSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile contact schema: %w", err)
	}

	if validate == nil {
		validate = validator.New(validator.WithRequiredStructEnabled())
	}
	validate.RegisterTagNameFunc(jsonFieldName)

	return &ContactValidator{schema: schema, validate: validate}, nil
}

// Decode validates body against the schema and returns the typed request.
// Any failure is reported as *Error.
func (v *ContactValidator) Decode(body []byte) (dto.ContactRequest, error) {
	var instance interface{}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&instance); err != nil {
		return dto.ContactRequest{}, &Error{Issues: []Issue{{
			Loc:  []string{"body"},
			Msg:  "JSON decode error",
			Type: "json_invalid",
		}}}
	}

	if err := v.schema.Validate(instance); err != nil {
		var schemaErr *jsonschema.ValidationError
		if errors.As(err, &schemaErr) {
			return dto.ContactRequest{}, &Error{Issues: schemaIssues(schemaErr)}
		}
		return dto.ContactRequest{}, err
	}

	var req dto.ContactRequest
	if err := json.Unmarshal(body, &req); err != nil {
		if errors.Is(err, dto.ErrInvalidTimestamp) {
			return dto.ContactRequest{}, &Error{Issues: []Issue{{
				Loc:  []string{"body", "submitted_at"},
				Msg:  "Input should be a valid datetime",
				Type: "datetime_parsing",
			}}}
		}
		return dto.ContactRequest{}, &Error{Issues: []Issue{{
			Loc:  []string{"body"},
			Msg:  err.Error(),
			Type: "value_error",
		}}}
	}

	if err := v.Struct(req); err != nil {
		return dto.ContactRequest{}, err
	}

	return req, nil
}

// Struct runs the struct-level rules on an already decoded request.
func (v *ContactValidator) Struct(req dto.ContactRequest) error {
	err := v.validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}

	issues := make([]Issue, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		msg := fmt.Sprintf("failed on the '%s' rule", fe.Tag())
		issueType := fe.Tag()
		if fe.Tag() == "required" {
			msg = "Field required"
			issueType = "missing"
		}
		issues = append(issues, Issue{
			Loc:  []string{"body", fe.Field()},
			Msg:  msg,
			Type: issueType,
		})
	}
	return &Error{Issues: issues}
}

func schemaIssues(root *jsonschema.ValidationError) []Issue {
	var issues []Issue
	var walk func(ve *jsonschema.ValidationError)
	walk = func(ve *jsonschema.ValidationError) {
		if len(ve.Causes) > 0 {
			for _, cause := range ve.Causes {
				walk(cause)
			}
			return
		}
		issues = append(issues, issueFromSchemaError(ve)...)
	}
	walk(root)

	sort.SliceStable(issues, func(i, j int) bool {
		return strings.Join(issues[i].Loc, ".") < strings.Join(issues[j].Loc, ".")
	})
	return issues
}

func issueFromSchemaError(ve *jsonschema.ValidationError) []Issue {
	loc := instanceLoc(ve.InstanceLocation)
	keyword := ve.KeywordLocation
	if idx := strings.LastIndex(keyword, "/"); idx >= 0 {
		keyword = keyword[idx+1:]
	}

	switch keyword {
	case "required":
		missing := missingProperties(ve.Message)
		issues := make([]Issue, 0, len(missing))
		for _, name := range missing {
			issues = append(issues, Issue{
				Loc:  append(append([]string{}, loc...), name),
				Msg:  "Field required",
				Type: "missing",
			})
		}
		if len(issues) > 0 {
			return issues
		}
		keyword = "missing"
	case "type":
		keyword = "type_error"
	case "minLength":
		keyword = "string_too_short"
	case "format":
		keyword = "format_error"
	}

	return []Issue{{Loc: loc, Msg: ve.Message, Type: keyword}}
}

func instanceLoc(pointer string) []string {
	loc := []string{"body"}
	for _, segment := range strings.Split(strings.TrimPrefix(pointer, "/"), "/") {
		if segment == "" {
			continue
		}
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		loc = append(loc, segment)
	}
	return loc
}

// missingProperties extracts names from "missing properties: 'a', 'b'".
func missingProperties(message string) []string {
	idx := strings.Index(message, ":")
	if idx < 0 {
		return nil
	}
	var names []string
	for _, part := range strings.Split(message[idx+1:], ",") {
		name := strings.Trim(strings.TrimSpace(part), "'")
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return field.Name
	}
	return name
}
