package validation

import (
	"fmt"

	"github.com/asaskevich/govalidator"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/iudanet/coursemanager/internal/models"
)

const (
	// MinPasswordLen минимальная длина пароля (как в форме регистрации)
	MinPasswordLen = 6
	// MaxPasswordLen ограничение сверху, чтобы не гонять мегабайты в bcrypt
	MaxPasswordLen = 72
)

// PhoneLen - телефон ровно из 10 цифр
const PhoneLen = 10

// emailFormat проверяет только синтаксис адреса, без DNS lookup (is.Email ходит за MX)
var emailFormat = validation.NewStringRule(govalidator.IsEmail, "must be a valid email address")

var (
	emailRules    = []validation.Rule{validation.Required, emailFormat}
	passwordRules = []validation.Rule{validation.Required, validation.Length(MinPasswordLen, MaxPasswordLen)}
	phoneRules    = []validation.Rule{validation.Length(PhoneLen, PhoneLen), is.Digit}
)

// ValidateEmail проверяет формат email
func ValidateEmail(email string) error {
	if err := validation.Validate(email, emailRules...); err != nil {
		return fmt.Errorf("email: %w", err)
	}
	return nil
}

// ValidatePassword проверяет минимальные требования к паролю
func ValidatePassword(password string) error {
	if err := validation.Validate(password, passwordRules...); err != nil {
		return fmt.Errorf("password: %w", err)
	}
	return nil
}

// ValidateCredentials validates the sign-in form.
func ValidateCredentials(email, password string) error {
	if err := ValidateEmail(email); err != nil {
		return err
	}
	if password == "" {
		return fmt.Errorf("password: cannot be blank")
	}
	return nil
}

// ValidateRegistration validates the sign-up form. Phone is required here and
// optional in profile edits. Roles are not checked:
// they are overwritten before the request is sent.
func ValidateRegistration(r models.Registration) error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, emailRules...),
		validation.Field(&r.Password, passwordRules...),
		validation.Field(&r.FullName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Phone, append([]validation.Rule{validation.Required}, phoneRules...)...),
	)
}

// ValidateProfileUpdate validates a partial profile edit. Empty fields are skipped.
func ValidateProfileUpdate(u models.ProfileUpdate) error {
	if u == (models.ProfileUpdate{}) {
		return fmt.Errorf("nothing to update")
	}
	return validation.ValidateStruct(&u,
		validation.Field(&u.Email, emailFormat),
		validation.Field(&u.FullName, validation.Length(1, 200)),
		validation.Field(&u.Phone, phoneRules...),
	)
}
