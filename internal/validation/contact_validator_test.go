package validation_test

import (
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/portfolio-api/internal/dto"
	"github.com/noah-isme/portfolio-api/internal/validation"
)

func newValidator(t *testing.T) *validation.ContactValidator {
	t.Helper()
	v, err := validation.NewContactValidator(validator.New(validator.WithRequiredStructEnabled()))
	require.NoError(t, err)
	return v
}

func requireIssues(t *testing.T, err error) []validation.Issue {
	t.Helper()
	var verr *validation.Error
	require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
	require.NotEmpty(t, verr.Issues)
	return verr.Issues
}

func TestDecodeValidPayload(t *testing.T) {
	v := newValidator(t)

	req, err := v.Decode([]byte(`{"name":"Ada","email":"ada@example.com","message":"Hello","extra":true}`))
	require.NoError(t, err)
	require.Equal(t, "Ada", req.Name)
	require.Equal(t, "ada@example.com", req.Email)
	require.Equal(t, "Hello", req.Message)
	require.Nil(t, req.SubmittedAt)
}

func TestDecodeSubmittedAt(t *testing.T) {
	v := newValidator(t)

	req, err := v.Decode([]byte(`{"name":"Ada","email":"ada@example.com","message":"Hello","submitted_at":"2025-01-02T03:04:05Z"}`))
	require.NoError(t, err)
	require.NotNil(t, req.SubmittedAt)
	require.True(t, req.SubmittedAt.Equal(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)))

	req, err = v.Decode([]byte(`{"name":"Ada","email":"ada@example.com","message":"Hello","submitted_at":null}`))
	require.NoError(t, err)
	require.Nil(t, req.SubmittedAt)
}

func TestDecodeMissingFields(t *testing.T) {
	v := newValidator(t)

	_, err := v.Decode([]byte(`{"name":"Ada"}`))
	issues := requireIssues(t, err)
	require.Len(t, issues, 2)
	require.Equal(t, []string{"body", "email"}, issues[0].Loc)
	require.Equal(t, "missing", issues[0].Type)
	require.Equal(t, []string{"body", "message"}, issues[1].Loc)
}

func TestDecodeWrongTypes(t *testing.T) {
	v := newValidator(t)

	_, err := v.Decode([]byte(`{"name":42,"email":"ada@example.com","message":"Hello"}`))
	issues := requireIssues(t, err)
	require.Equal(t, []string{"body", "name"}, issues[0].Loc)
	require.Equal(t, "type_error", issues[0].Type)

	_, err = v.Decode([]byte(`{"name":"Ada","email":"ada@example.com","message":"Hello","submitted_at":"yesterday"}`))
	issues = requireIssues(t, err)
	require.Equal(t, []string{"body", "submitted_at"}, issues[0].Loc)
	require.Equal(t, "datetime_parsing", issues[0].Type)
}

func TestDecodeNumericFieldsReachSchema(t *testing.T) {
	v := newValidator(t)

	_, err := v.Decode([]byte(`{"name":"Ada","email":"ada@example.com","message":12345678901234567890}`))
	issues := requireIssues(t, err)
	require.Len(t, issues, 1)
	require.Equal(t, []string{"body", "message"}, issues[0].Loc)
	require.Equal(t, "type_error", issues[0].Type)
}

func TestDecodeSubmittedAtWithoutOffset(t *testing.T) {
	v := newValidator(t)

	cases := map[string]time.Time{
		"2025-05-01T08:30:00":         time.Date(2025, 5, 1, 8, 30, 0, 0, time.UTC),
		"2025-05-01T08:30:00.250":     time.Date(2025, 5, 1, 8, 30, 0, 250000000, time.UTC),
		"2025-05-01 08:30:00":         time.Date(2025, 5, 1, 8, 30, 0, 0, time.UTC),
		"2025-05-01T08:30:00+07:00":   time.Date(2025, 5, 1, 1, 30, 0, 0, time.UTC),
		"2025-05-01":                  time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		"2025-05-01T08:30:00.000001Z": time.Date(2025, 5, 1, 8, 30, 0, 1000, time.UTC),
	}
	for raw, want := range cases {
		t.Run(raw, func(t *testing.T) {
			req, err := v.Decode([]byte(`{"name":"Ada","email":"ada@example.com","message":"Hello","submitted_at":"` + raw + `"}`))
			require.NoError(t, err)
			require.NotNil(t, req.SubmittedAt)
			require.True(t, req.SubmittedAt.Equal(want), "got %s", req.SubmittedAt.UTC())
		})
	}
}

func TestDecodeRejectsEmptyStrings(t *testing.T) {
	v := newValidator(t)

	_, err := v.Decode([]byte(`{"name":"","email":"ada@example.com","message":"Hello"}`))
	issues := requireIssues(t, err)
	require.Equal(t, []string{"body", "name"}, issues[0].Loc)
}

func TestDecodeRejectsNonObjects(t *testing.T) {
	v := newValidator(t)

	for _, body := range []string{`[]`, `"hello"`, `{"name":`, ``} {
		_, err := v.Decode([]byte(body))
		requireIssues(t, err)
	}
}

func TestStructUsesJSONFieldNames(t *testing.T) {
	v := newValidator(t)

	err := v.Struct(dto.ContactRequest{Name: "Ada"})
	issues := requireIssues(t, err)
	require.Len(t, issues, 2)
	require.Equal(t, []string{"body", "email"}, issues[0].Loc)
	require.Equal(t, "Field required", issues[0].Msg)
}
