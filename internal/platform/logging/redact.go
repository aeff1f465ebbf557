package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

// sensitiveFields are attribute keys whose values never reach a log sink.
// They cover the logo store credentials and the bank details printed on
// documents, in both the snake and camel spellings used across config, JSON
// and CLI flags.
var sensitiveFields = []string{
	"password",
	"token",
	"api_key", "apiKey", "apikey",
	"authorization", "auth", "cookie",
	"access_key_id", "accessKeyId",
	"secret_access_key", "secretAccessKey",
	"session_token", "sessionToken",
	"aws_secret_access_key", "aws_session_token",
	"account_number", "accountNumber",
}

// sensitivePrefixes redact any key starting with them, such as secret_config.
var sensitivePrefixes = []string{"secret", "private"}

var (
	jwtValue    = regexp.MustCompile(`^eyJ[\w-]*\.eyJ[\w-]*\.[\w-]*$`)
	bearerValue = regexp.MustCompile(`(?i)^(bearer|basic)\s+\S+`)
	// Pre-signed logo URLs carry their signature in the query string.
	signedURLValue = regexp.MustCompile(`(?i)[?&]X-Amz-(Signature|Credential|Security-Token)=`)
)

// RedactOptions lists the masq rules applied to every log record.
func RedactOptions() []masq.Option {
	opts := make([]masq.Option, 0, len(sensitiveFields)+len(sensitivePrefixes)+3)

	for _, name := range sensitiveFields {
		opts = append(opts, masq.WithFieldName(name))
	}

	for _, prefix := range sensitivePrefixes {
		opts = append(opts, masq.WithFieldPrefix(prefix))
	}

	return append(opts,
		masq.WithRegex(jwtValue),
		masq.WithRegex(bearerValue),
		masq.WithRegex(signedURLValue),
	)
}

// NewReplaceAttr returns a slog ReplaceAttr func that masks sensitive values.
// extra rules are applied on top of RedactOptions.
func NewReplaceAttr(extra ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	return masq.New(append(RedactOptions(), extra...)...)
}
