package errors_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/lenna/internal/errors"
)

type ValidationTestSuite struct {
	suite.Suite
}

func TestValidationSuite(t *testing.T) {
	suite.Run(t, new(ValidationTestSuite))
}

func (s *ValidationTestSuite) TestValidationError() {
	ve := errors.NewValidationError()
	s.False(ve.HasErrors())
	s.Equal("validation failed", ve.Error())

	ve.AddFieldError("WikiClient", "is required")
	ve.AddFieldError("Cache", "is required")
	s.True(ve.HasErrors())
	s.Equal("validation failed: Cache: is required; WikiClient: is required", ve.Error())
}

func (s *ValidationTestSuite) TestValidationBuilder() {
	err := errors.NewValidationBuilder().
		RequiredField("Cache").
		InvalidField("StaleAfter", "must be positive").
		Build()

	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))

	fields := errors.GetMeta(err)["validation_errors"].(map[string][]string)
	s.Equal([]string{"is required"}, fields["Cache"])
	s.Equal([]string{"is invalid: must be positive"}, fields["StaleAfter"])
}

func (s *ValidationTestSuite) TestValidationBuilderNoErrors() {
	s.NoError(errors.NewValidationBuilder().Build())
}

func (s *ValidationTestSuite) TestValidateRequired() {
	testCases := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "present", value: "Suomi"},
		{name: "empty", value: "", wantErr: true},
		{name: "whitespace only", value: "   ", wantErr: true},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			vb := errors.NewValidationBuilder()
			errors.ValidateRequired("name", tc.value, vb)
			if tc.wantErr {
				s.Error(vb.Build())
			} else {
				s.NoError(vb.Build())
			}
		})
	}
}
