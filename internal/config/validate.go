package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// minJWTSecretLen guards against toy HS256 secrets.
const minJWTSecretLen = 16

var validate = validator.New()

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Validate checks field ranges and cross-field constraints.
func (c *Config) Validate() error {
	var msgs []string
	if err := validate.Struct(c); err != nil {
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		for _, fe := range ve {
			msgs = append(msgs, fmt.Sprintf("field '%s' failed '%s'", fe.Namespace(), fe.Tag()))
		}
	}

	if _, err := time.LoadLocation(c.Location.Timezone); err != nil {
		msgs = append(msgs, fmt.Sprintf("unknown timezone %q", c.Location.Timezone))
	}
	if c.API.Enabled && len(c.API.JWTSecret) < minJWTSecretLen {
		msgs = append(msgs, fmt.Sprintf("api.jwt_secret must be at least %d characters", minJWTSecretLen))
	}
	if c.Notifier.Backend == "sns" && c.Notifier.SNS.PhoneNumber == "" && c.Notifier.SNS.TopicARN == "" {
		msgs = append(msgs, "notifier.sns needs phone_number or topic_arn")
	}

	if len(msgs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
	}
	return nil
}
