package models

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type ValidateSuite struct {
	suite.Suite
}

func TestValidateSuite(t *testing.T) {
	suite.Run(t, new(ValidateSuite))
}

func validCitizen() RegistrationInput {
	return RegistrationInput{
		Kind:       "citizen",
		Name:       "A B",
		Email:      "a@b.com",
		Password:   "secret1",
		Mobile:     "9876543210",
		NationalID: "123456789012",
	}
}

func validOfficial() RegistrationInput {
	return RegistrationInput{
		Kind:     "official",
		Name:     "Officer Jane",
		Email:    "jane@gov.example",
		Password: "secret1",
		Code:     "12345",
	}
}

func (s *ValidateSuite) fieldNames(errs []FieldError) []string {
	names := make([]string, 0, len(errs))
	for _, fe := range errs {
		names = append(names, fe.Field)
	}
	return names
}

func (s *ValidateSuite) TestValidInputs() {
	s.Run("citizen", func() {
		s.Empty(ValidateRegistration(validCitizen()))
	})
	s.Run("official", func() {
		s.Empty(ValidateRegistration(validOfficial()))
	})
	s.Run("ngo", func() {
		in := validOfficial()
		in.Kind = "ngo"
		s.Empty(ValidateRegistration(in))
	})
}

func (s *ValidateSuite) TestActorKind() {
	s.Run("unknown kind is the only reported error", func() {
		in := validCitizen()
		in.Kind = "admin"
		errs := ValidateRegistration(in)
		s.Require().Len(errs, 1)
		s.Equal("userType", errs[0].Field)
	})
}

func (s *ValidateSuite) TestCitizenRules() {
	s.Run("mobile must be exactly 10 digits", func() {
		for _, mobile := range []string{"", "123", "98765432101", "987654321a"} {
			in := validCitizen()
			in.Mobile = mobile
			s.Contains(s.fieldNames(ValidateRegistration(in)), "mobile")
		}
	})

	s.Run("national id must be exactly 12 digits", func() {
		for _, nid := range []string{"", "12345678901", "1234567890123", "12345678901x"} {
			in := validCitizen()
			in.NationalID = nid
			s.Contains(s.fieldNames(ValidateRegistration(in)), "aadhar")
		}
	})

	s.Run("organization code is rejected for citizens", func() {
		in := validCitizen()
		in.Code = "12345"
		errs := ValidateRegistration(in)
		s.Require().Len(errs, 1)
		s.Equal("code", errs[0].Field)
		s.Equal("Code field is not required for citizens", errs[0].Message)
	})
}

func (s *ValidateSuite) TestOrgRules() {
	s.Run("code must be exactly 5 digits", func() {
		for _, code := range []string{"", "1234", "123456", "12AB3"} {
			in := validOfficial()
			in.Code = code
			errs := ValidateRegistration(in)
			s.Require().Len(errs, 1)
			s.Equal("code", errs[0].Field)
		}
	})

	s.Run("mobile and national id are not required", func() {
		in := validOfficial()
		in.Mobile = ""
		in.NationalID = ""
		s.Empty(ValidateRegistration(in))
	})

	s.Run("same rules apply to ngos", func() {
		in := validOfficial()
		in.Kind = "ngo"
		in.Code = "12AB3"
		errs := ValidateRegistration(in)
		s.Require().Len(errs, 1)
		s.Equal("code", errs[0].Field)
	})
}

func (s *ValidateSuite) TestSharedRules() {
	s.Run("password shorter than 6 characters", func() {
		in := validCitizen()
		in.Password = "five5"
		s.Contains(s.fieldNames(ValidateRegistration(in)), "password")
	})

	s.Run("name shorter than 2 characters after trimming", func() {
		in := validCitizen()
		in.Name = " a "
		s.Contains(s.fieldNames(ValidateRegistration(in)), "name")
	})

	s.Run("invalid email syntax", func() {
		for _, email := range []string{"", "no-at-sign", "a@", "@b.com"} {
			in := validCitizen()
			in.Email = email
			s.Contains(s.fieldNames(ValidateRegistration(in)), "email")
		}
	})
}

func (s *ValidateSuite) TestAllViolationsCollected() {
	in := RegistrationInput{
		Kind:     "citizen",
		Name:     "x",
		Email:    "bad",
		Password: "123",
		Code:     "12345",
	}
	errs := ValidateRegistration(in)
	names := s.fieldNames(errs)
	s.ElementsMatch([]string{"code", "password", "name", "email", "mobile", "aadhar"}, names)
}

func (s *ValidateSuite) TestValidationErrorJoinsMessages() {
	in := validCitizen()
	in.Password = "123"
	in.Mobile = "12"
	err := ValidationError(ValidateRegistration(in))
	s.Require().Error(err)
	s.Contains(err.Error(), "Password must be at least 6 characters long")
	s.Contains(err.Error(), "Mobile number must be 10 digits")
	s.Contains(err.Error(), ", ")
}
