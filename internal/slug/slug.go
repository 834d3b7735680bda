package slug

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	domainRequiredMessageConstant     = "domain must be provided"
	suffixListRequiredMessageConstant = "recognized suffix list must not be empty"
	unknownSuffixTemplateConstant     = "domain %q ends with unrecognized suffix %q (recognized suffixes: %s)"
	emptyDerivationTemplateConstant   = "domain %q leaves nothing after removing suffix %q"
	invalidSlugTemplateConstant       = "derived slug %q from domain %q is not a valid repository name"
	httpsSchemePrefixConstant         = "https://"
	httpSchemePrefixConstant          = "http://"
	wwwPrefixConstant                 = "www."
	hostPathSeparatorConstant         = "/"
	hostPortSeparatorConstant         = ":"
	labelSeparatorConstant            = "."
	labelJoinReplacementConstant      = "-"
	suffixListSeparatorConstant       = ", "
	slugPatternConstant               = `^[a-z0-9][a-z0-9-]*$`
	maximumSlugLengthConstant         = 100
)

var slugPattern = regexp.MustCompile(slugPatternConstant)

// Slug identifies the repository-safe name derived from a client domain.
type Slug string

// String returns the slug text.
func (slugValue Slug) String() string {
	return string(slugValue)
}

// ErrDomainRequired indicates the domain argument was empty.
var ErrDomainRequired = errors.New(domainRequiredMessageConstant)

// ErrNoRecognizedSuffixes indicates the recognized suffix list was empty.
var ErrNoRecognizedSuffixes = errors.New(suffixListRequiredMessageConstant)

// UnknownSuffixError indicates the domain does not end with a recognized suffix.
type UnknownSuffixError struct {
	Domain             string
	Suffix             string
	RecognizedSuffixes []string
}

// Error describes the unrecognized suffix and lists the recognized ones.
func (suffixError UnknownSuffixError) Error() string {
	return fmt.Sprintf(unknownSuffixTemplateConstant, suffixError.Domain, suffixError.Suffix, strings.Join(suffixError.RecognizedSuffixes, suffixListSeparatorConstant))
}

// EmptyDerivationError indicates nothing remained once the suffix was removed.
type EmptyDerivationError struct {
	Domain string
	Suffix string
}

// Error describes the empty derivation.
func (derivationError EmptyDerivationError) Error() string {
	return fmt.Sprintf(emptyDerivationTemplateConstant, derivationError.Domain, derivationError.Suffix)
}

// InvalidSlugError indicates the derived value cannot name a repository.
type InvalidSlugError struct {
	Domain string
	Value  string
}

// Error describes the invalid derivation.
func (slugError InvalidSlugError) Error() string {
	return fmt.Sprintf(invalidSlugTemplateConstant, slugError.Value, slugError.Domain)
}

// Derive converts a client domain into the slug naming its website repository.
func Derive(domain string, recognizedSuffixes []string) (Slug, error) {
	normalizedDomain := normalizeDomain(domain)
	if len(normalizedDomain) == 0 {
		return "", ErrDomainRequired
	}

	normalizedSuffixes := normalizeSuffixes(recognizedSuffixes)
	if len(normalizedSuffixes) == 0 {
		return "", ErrNoRecognizedSuffixes
	}

	matchedSuffix, suffixRecognized := matchLongestSuffix(normalizedDomain, normalizedSuffixes)
	if !suffixRecognized {
		return "", UnknownSuffixError{
			Domain:             normalizedDomain,
			Suffix:             trailingLabel(normalizedDomain),
			RecognizedSuffixes: normalizedSuffixes,
		}
	}
	if normalizedDomain == matchedSuffix {
		return "", EmptyDerivationError{Domain: normalizedDomain, Suffix: matchedSuffix}
	}

	remainder := strings.TrimSuffix(normalizedDomain, labelSeparatorConstant+matchedSuffix)
	candidate := strings.ReplaceAll(remainder, labelSeparatorConstant, labelJoinReplacementConstant)
	if len(candidate) > maximumSlugLengthConstant || !slugPattern.MatchString(candidate) {
		return "", InvalidSlugError{Domain: normalizedDomain, Value: candidate}
	}

	return Slug(candidate), nil
}

func normalizeDomain(domain string) string {
	normalized := strings.ToLower(strings.TrimSpace(domain))
	normalized = strings.TrimPrefix(normalized, httpsSchemePrefixConstant)
	normalized = strings.TrimPrefix(normalized, httpSchemePrefixConstant)
	if pathIndex := strings.Index(normalized, hostPathSeparatorConstant); pathIndex >= 0 {
		normalized = normalized[:pathIndex]
	}
	if portIndex := strings.Index(normalized, hostPortSeparatorConstant); portIndex >= 0 {
		normalized = normalized[:portIndex]
	}
	normalized = strings.TrimPrefix(normalized, wwwPrefixConstant)
	normalized = strings.TrimSuffix(normalized, labelSeparatorConstant)
	return normalized
}

func normalizeSuffixes(recognizedSuffixes []string) []string {
	normalizedSuffixes := make([]string, 0, len(recognizedSuffixes))
	for _, recognizedSuffix := range recognizedSuffixes {
		normalizedSuffix := strings.ToLower(strings.TrimSpace(recognizedSuffix))
		normalizedSuffix = strings.TrimPrefix(normalizedSuffix, labelSeparatorConstant)
		if len(normalizedSuffix) == 0 {
			continue
		}
		normalizedSuffixes = append(normalizedSuffixes, normalizedSuffix)
	}
	return normalizedSuffixes
}

func matchLongestSuffix(host string, recognizedSuffixes []string) (string, bool) {
	longestMatch := ""
	for _, recognizedSuffix := range recognizedSuffixes {
		if host != recognizedSuffix && !strings.HasSuffix(host, labelSeparatorConstant+recognizedSuffix) {
			continue
		}
		if len(recognizedSuffix) > len(longestMatch) {
			longestMatch = recognizedSuffix
		}
	}
	return longestMatch, len(longestMatch) > 0
}

func trailingLabel(host string) string {
	lastSeparatorIndex := strings.LastIndex(host, labelSeparatorConstant)
	if lastSeparatorIndex == -1 {
		return host
	}
	return host[lastSeparatorIndex+1:]
}
