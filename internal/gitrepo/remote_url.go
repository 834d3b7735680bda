package gitrepo

import (
	"fmt"
	"strings"
)

const (
	sshSchemeConstant                = "ssh://"
	httpsSchemeConstant              = "https://"
	scpUserPrefixConstant            = "git@"
	repositorySuffixConstant         = ".git"
	sshRemoteTemplateConstant        = "git@%s:%s/%s.git"
	httpsRemoteTemplateConstant      = "https://%s/%s/%s.git"
	parseFailureTemplateConstant     = "%s: %s"
	malformedRemoteMessageConstant   = "not a recognized ssh or https remote"
	unsupportedSchemeMessageConstant = "unsupported remote protocol"
)

// RemoteProtocol identifies the transport embedded in a remote URL.
type RemoteProtocol string

// Remote protocols the parser and formatter understand.
const (
	RemoteProtocolSSH   RemoteProtocol = RemoteProtocol("ssh")
	RemoteProtocolHTTPS RemoteProtocol = RemoteProtocol("https")
)

// RemoteURL is the structured form of a git remote address.
type RemoteURL struct {
	Protocol   RemoteProtocol
	Host       string
	Owner      string
	Repository string
}

// RemoteURLParseError reports remote text that matches no known form.
type RemoteURLParseError struct {
	Input   string
	Message string
}

// Error describes the rejected input.
func (parseError RemoteURLParseError) Error() string {
	return fmt.Sprintf(parseFailureTemplateConstant, parseError.Input, parseError.Message)
}

// UnsupportedProtocolError reports a protocol the formatter cannot render.
type UnsupportedProtocolError struct {
	Protocol RemoteProtocol
}

// Error describes the rejected protocol.
func (protocolError UnsupportedProtocolError) Error() string {
	return fmt.Sprintf(parseFailureTemplateConstant, protocolError.Protocol, unsupportedSchemeMessageConstant)
}

// ParseRemoteURL interprets the remote forms GitHub issues for repositories:
// scp-like ssh, scheme-qualified ssh, and https, each with an optional .git
// suffix.
func ParseRemoteURL(remote string) (RemoteURL, error) {
	trimmedRemote := strings.TrimSpace(remote)
	switch {
	case len(trimmedRemote) == 0:
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: requiredValueMessageConstant}
	case strings.HasPrefix(trimmedRemote, httpsSchemeConstant):
		return parseHTTPSRemote(trimmedRemote, remote)
	case strings.HasPrefix(trimmedRemote, sshSchemeConstant), strings.HasPrefix(trimmedRemote, scpUserPrefixConstant):
		return parseSSHRemote(trimmedRemote, remote)
	default:
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: malformedRemoteMessageConstant}
	}
}

func parseSSHRemote(trimmedRemote string, originalRemote string) (RemoteURL, error) {
	withoutScheme := strings.TrimPrefix(trimmedRemote, sshSchemeConstant)
	_, hostAndPath, userinfoFound := strings.Cut(withoutScheme, "@")
	if !userinfoFound {
		return RemoteURL{}, RemoteURLParseError{Input: originalRemote, Message: malformedRemoteMessageConstant}
	}

	host, repositoryPath, scpForm := strings.Cut(hostAndPath, ":")
	if !scpForm {
		host, repositoryPath, _ = strings.Cut(hostAndPath, "/")
	}
	owner, repositoryName, pathValid := splitRepositoryPath(repositoryPath)
	if !pathValid {
		return RemoteURL{}, RemoteURLParseError{Input: originalRemote, Message: malformedRemoteMessageConstant}
	}
	return RemoteURL{Protocol: RemoteProtocolSSH, Host: host, Owner: owner, Repository: repositoryName}, nil
}

func parseHTTPSRemote(trimmedRemote string, originalRemote string) (RemoteURL, error) {
	host, repositoryPath, pathFound := strings.Cut(strings.TrimPrefix(trimmedRemote, httpsSchemeConstant), "/")
	if !pathFound {
		return RemoteURL{}, RemoteURLParseError{Input: originalRemote, Message: malformedRemoteMessageConstant}
	}
	owner, repositoryName, pathValid := splitRepositoryPath(repositoryPath)
	if !pathValid {
		return RemoteURL{}, RemoteURLParseError{Input: originalRemote, Message: malformedRemoteMessageConstant}
	}
	return RemoteURL{Protocol: RemoteProtocolHTTPS, Host: host, Owner: owner, Repository: repositoryName}, nil
}

// splitRepositoryPath separates an owner/name path, tolerating a trailing
// .git suffix on the name.
func splitRepositoryPath(repositoryPath string) (string, string, bool) {
	owner, repositoryName, separatorFound := strings.Cut(repositoryPath, "/")
	repositoryName = strings.TrimSuffix(repositoryName, repositorySuffixConstant)
	if !separatorFound || len(owner) == 0 || len(repositoryName) == 0 {
		return "", "", false
	}
	return owner, repositoryName, true
}

// FormatRemoteURL renders the remote in the requested protocol form.
func FormatRemoteURL(remote RemoteURL) (string, error) {
	for _, fieldValue := range []string{remote.Host, remote.Owner, remote.Repository} {
		if len(strings.TrimSpace(fieldValue)) == 0 {
			return "", RemoteURLParseError{Input: fieldValue, Message: requiredValueMessageConstant}
		}
	}

	switch remote.Protocol {
	case RemoteProtocolSSH:
		return fmt.Sprintf(sshRemoteTemplateConstant, remote.Host, remote.Owner, remote.Repository), nil
	case RemoteProtocolHTTPS:
		return fmt.Sprintf(httpsRemoteTemplateConstant, remote.Host, remote.Owner, remote.Repository), nil
	default:
		return "", UnsupportedProtocolError{Protocol: remote.Protocol}
	}
}
