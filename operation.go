package gtaw

import (
	"fmt"
	"regexp"
	"strings"

	apierrors "github.com/okuzmin/go-twitter-api-wrapper/pkg/errors"
	"github.com/okuzmin/go-twitter-api-wrapper/pkg/format"
	"github.com/okuzmin/go-twitter-api-wrapper/pkg/types"
)

// placeholderPattern matches %(name)s-style path template placeholders.
// This placeholder shape is the contract with endpoint layers built on top
// of the library.
var placeholderPattern = regexp.MustCompile(`%\(([^)]*)\)s`)

// Invoke turns an operation descriptor plus parameters into a normalized,
// signable invocation.
//
// The method is trimmed and uppercased; an empty method or path is a
// malformed operation. The path is resolved to an absolute URL against the
// configured host and version, the format extension is appended unless
// already present, and %(name)s placeholders are substituted from the
// parameters. Placeholders left unresolved are an error, while parameters
// not used by the template are silently retained for the query or body.
// Nil-valued parameters are pruned; the rest are stringified.
func (c *Client) Invoke(op types.Operation, params map[string]any) (*types.Invocation, error) {
	method, err := normalizeMethod(op.Method)
	if err != nil {
		return nil, err
	}
	if op.Path == "" {
		return nil, &apierrors.OperationError{Message: "operation path is empty"}
	}

	f := op.Format
	if f == nil {
		f = format.JSON{}
	}

	cleanParams := pruneParams(params)

	resolved := c.normalizeURL(op.Path, f.Extension())
	resolved, err = expandPath(resolved, cleanParams)
	if err != nil {
		return nil, err
	}

	headers := make(map[string]string, len(c.config.Headers)+1)
	for k, v := range c.config.Headers {
		headers[k] = v
	}
	appendUserAgent(headers)

	return &types.Invocation{
		Method:  method,
		URL:     resolved,
		Params:  cleanParams,
		Headers: headers,
		Format:  f,
	}, nil
}

// normalizeMethod uppercases and trims the HTTP verb. A blank verb is a
// malformed operation.
func normalizeMethod(method string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(method))
	if normalized == "" {
		return "", &apierrors.OperationError{Message: "operation method is empty"}
	}
	return normalized, nil
}

// normalizeURL resolves a path to an absolute URL. Absolute paths are kept
// as-is, host-relative paths (leading slash) skip the version segment, and
// plain relative paths get both the host and the version prefix. The format
// extension is appended unless the path already ends with it.
func (c *Client) normalizeURL(path, extension string) string {
	extension = strings.TrimLeft(extension, ".")
	suffix := ""
	if extension != "" && !strings.HasSuffix(path, "."+extension) {
		suffix = "." + extension
	}

	scheme := "https"
	if c.config.PlainHTTP {
		scheme = "http"
	}

	switch {
	case strings.Contains(path, "://"):
		return path + suffix
	case strings.HasPrefix(path, "/"):
		return scheme + "://" + c.config.APIHost + "/" + strings.Trim(path, "/") + suffix
	default:
		return scheme + "://" + c.config.APIHost + "/" + c.config.APIVersion + "/" + strings.Trim(path, "/") + suffix
	}
}

// expandPath substitutes %(name)s placeholders from params. Substituted
// parameters stay in the parameter set; unresolved placeholders are a
// malformed operation.
func expandPath(resolved string, params map[string]string) (string, error) {
	var missing []string
	expanded := placeholderPattern.ReplaceAllStringFunc(resolved, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		value, ok := params[name]
		if !ok {
			missing = append(missing, name)
			return match
		}
		return value
	})
	if len(missing) > 0 {
		return "", &apierrors.OperationError{
			Message: "unresolved path placeholders: " + strings.Join(missing, ", "),
		}
	}
	return expanded, nil
}

// pruneParams drops nil-valued parameters and stringifies the rest.
func pruneParams(params map[string]any) map[string]string {
	clean := make(map[string]string, len(params))
	for k, v := range params {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok {
			clean[k] = s
			continue
		}
		clean[k] = fmt.Sprint(v)
	}
	return clean
}

// appendUserAgent appends the library's identifying string to the
// User-Agent header, case-insensitively, without overwriting an existing
// value: existing value, a single space, then the library string.
func appendUserAgent(headers map[string]string) {
	for k, v := range headers {
		if strings.EqualFold(k, "User-Agent") {
			if v == "" {
				headers[k] = libraryUserAgent
			} else {
				headers[k] = v + " " + libraryUserAgent
			}
			return
		}
	}
	headers["User-Agent"] = libraryUserAgent
}
