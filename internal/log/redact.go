package log

import (
	"net/url"
	"regexp"
	"strings"
)

// Mask replaces every redacted value.
const Mask = "***REDACTED***"

// secretKeys are normalized attribute keys that always hold a secret.
// Normalization lowercases and drops '-' and '_', so "api_key", "apiKey"
// and "X-Api-Key" all meet here.
var secretKeys = map[string]struct{}{
	"credentials":   {},
	"user":          {},
	"username":      {},
	"authorization": {},
	"cookie":        {},
	"xapikey":       {},
	"apikey":        {},
	"accesstoken":   {},
	"certname":      {},
	"keyname":       {},
}

// secretFragments mark a key as secret wherever they appear in it.
// A bare "key" is not one of them: "groupKey" and "keyword" are harmless.
var secretFragments = []string{
	"password", "passwd", "secret", "token", "credential", "privatekey",
}

// secretValues match strings that are secrets whatever their key.
var secretValues = []*regexp.Regexp{
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`),
	regexp.MustCompile(`(?i)^bearer\s+\S+`),
	regexp.MustCompile(`(?i)^basic\s+[A-Za-z0-9+/=]+$`),
	regexp.MustCompile(`(?i)-----BEGIN[A-Z ]*PRIVATE KEY-----`),
}

// userinfoURL finds a URL carrying a password in its userinfo, such as
// the broker and database URLs that config nodes hold.
var userinfoURL = regexp.MustCompile(`[A-Za-z][A-Za-z0-9+.-]*://[^/\s:@]+:[^/\s@]+@[^\s]*`)

func normalizeKey(key string) string {
	return strings.NewReplacer("-", "", "_", "").Replace(strings.ToLower(key))
}

// IsSecretKey reports whether an attribute with this key is always masked.
func IsSecretKey(key string) bool {
	k := normalizeKey(key)
	if _, ok := secretKeys[k]; ok {
		return true
	}
	for _, fragment := range secretFragments {
		if strings.Contains(k, fragment) {
			return true
		}
	}
	return false
}

// RedactString masks the secrets inside s.
//
// Tokens and key blocks replace the whole value. URL passwords are masked
// in place so "mqtt://admin:pw@10.0.0.5:1883" still names the broker.
func RedactString(s string) string {
	for _, re := range secretValues {
		if re.MatchString(s) {
			return Mask
		}
	}
	return userinfoURL.ReplaceAllStringFunc(s, redactURL)
}

func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return Mask
	}
	if _, hasPassword := u.User.Password(); !hasPassword {
		return raw
	}
	u.User = url.UserPassword(u.User.Username(), "xxxxx")
	return strings.Replace(u.String(), ":xxxxx@", ":"+Mask+"@", 1)
}
