package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

// Token-looking values are redacted wherever they appear.
var secretValuePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`), // JWT
	regexp.MustCompile(`(?i)^bearer\s+.+$`),
	regexp.MustCompile(`(?i)^basic\s+.+$`),
}

// Attribute names that always carry secrets. Header names are lower case
// because downstream request headers are logged that way.
var secretFieldNames = []string{
	"password", "secret", "token", "auth", "bearer", "cookie", "session",
	"apiKey", "apikey", "api_key", "x-api-key",
	"accessToken", "access_token", "refreshToken", "refresh_token",
	"credential", "credentials",
	"authorization", "proxy-authorization",
	"privateKey", "private_key", "secretKey", "secret_key",
}

var secretFieldPrefixes = []string{"secret", "private"}

// DefaultRedactOptions returns the masq options used for every logger.
func DefaultRedactOptions() []masq.Option {
	opts := make([]masq.Option, 0, len(secretFieldNames)+len(secretFieldPrefixes)+len(secretValuePatterns))

	for _, name := range secretFieldNames {
		opts = append(opts, masq.WithFieldName(name))
	}

	for _, prefix := range secretFieldPrefixes {
		opts = append(opts, masq.WithFieldPrefix(prefix))
	}

	for _, re := range secretValuePatterns {
		opts = append(opts, masq.WithRegex(re))
	}

	return opts
}

// NewReplaceAttr returns a slog ReplaceAttr that redacts secrets using
// DefaultRedactOptions plus opts.
func NewReplaceAttr(opts ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	return masq.New(append(DefaultRedactOptions(), opts...)...)
}
