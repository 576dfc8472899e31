package internal

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"net/url"
	"sort"
	"strings"

	"github.com/google/uuid"

	apierrors "github.com/okuzmin/go-twitter-api-wrapper/pkg/errors"
)

// Nonce returns a unique request nonce for OAuth signing.
func Nonce() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// PercentEncode encodes s per RFC 3986 as required by OAuth 1.0 signing:
// only ALPHA, DIGIT, "-", ".", "_" and "~" pass through unencoded, and
// everything else becomes uppercase %XX triplets.
func PercentEncode(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, b := range []byte(s) {
		if isUnreserved(b) {
			sb.WriteByte(b)
			continue
		}
		sb.WriteByte('%')
		sb.WriteByte(upperHex[b>>4])
		sb.WriteByte(upperHex[b&0x0f])
	}
	return sb.String()
}

const upperHex = "0123456789ABCDEF"

func isUnreserved(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') ||
		(b >= '0' && b <= '9') ||
		b == '-' || b == '.' || b == '_' || b == '~'
}

// SplitURL separates the query string from rawURL, returning the query-free
// URL and the decoded query parameters. Signers use it to fold preexisting
// query parameters into the signed parameter set, so the rebuilt request
// carries a single query string matching what was signed.
func SplitURL(rawURL string) (string, map[string]string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", nil, &apierrors.TransportError{URL: rawURL, Err: err}
	}

	params := make(map[string]string)
	for k, vs := range u.Query() {
		if len(vs) > 0 {
			params[k] = vs[0]
		}
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), params, nil
}

// SignatureBase builds the OAuth 1.0 signature base string for the request:
// the uppercase method, the normalized base URL, and the sorted
// percent-encoded parameters, each component percent-encoded and joined
// with "&".
func SignatureBase(method, rawURL string, params map[string]string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", &apierrors.TransportError{URL: rawURL, Err: err}
	}

	merged := make(map[string]string, len(params))
	for k, v := range params {
		merged[k] = v
	}
	// Query parameters already on the URL take part in the signature too.
	for k, vs := range u.Query() {
		if len(vs) > 0 {
			merged[k] = vs[0]
		}
	}

	base := normalizeBaseURL(u)
	return strings.ToUpper(method) + "&" + PercentEncode(base) + "&" + PercentEncode(normalizeParams(merged)), nil
}

// normalizeBaseURL lowercases the scheme and host, drops default ports, and
// strips the query and fragment.
func normalizeBaseURL(u *url.URL) string {
	scheme := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Host)
	if (scheme == "http" && strings.HasSuffix(host, ":80")) ||
		(scheme == "https" && strings.HasSuffix(host, ":443")) {
		host = host[:strings.LastIndex(host, ":")]
	}
	return scheme + "://" + host + u.EscapedPath()
}

// normalizeParams percent-encodes keys and values, sorts the pairs by
// encoded key (then encoded value), and joins them with "=" and "&".
func normalizeParams(params map[string]string) string {
	pairs := make([]string, 0, len(params))
	for k, v := range params {
		pairs = append(pairs, PercentEncode(k)+"="+PercentEncode(v))
	}
	sort.Strings(pairs)
	return strings.Join(pairs, "&")
}

// HMACSHA1 computes the base64-encoded HMAC-SHA1 signature of the base
// string. The signing key is the percent-encoded consumer secret and token
// secret joined with "&"; the token secret is empty before a token exists.
func HMACSHA1(baseString, consumerSecret, tokenSecret string) string {
	key := PercentEncode(consumerSecret) + "&" + PercentEncode(tokenSecret)
	mac := hmac.New(sha1.New, []byte(key))
	mac.Write([]byte(baseString))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// EncodeParams form-encodes the parameters in sorted order, using OAuth
// percent-encoding so that the encoded form matches what was signed.
func EncodeParams(params map[string]string) string {
	return normalizeParams(params)
}
