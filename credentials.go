package gtaw

import (
	"encoding/base64"
	"net/http"
	"strconv"
	"time"

	"github.com/okuzmin/go-twitter-api-wrapper/internal"
	apierrors "github.com/okuzmin/go-twitter-api-wrapper/pkg/errors"
	"github.com/okuzmin/go-twitter-api-wrapper/pkg/types"
)

// Kind identifies a credentials variant. The OAuth kinds form a lifecycle:
// Application (consumer only) requests a Temporary token, which the user
// authorizes and the application confirms into a Token.
type Kind int

const (
	// Application credentials carry only the consumer identity.
	Application Kind = iota
	// Temporary credentials carry an unconfirmed request token, pending
	// user approval.
	Temporary
	// Token credentials carry a confirmed access token.
	Token
	// Basic credentials authenticate with an HTTP Basic header instead
	// of OAuth signing.
	Basic
)

// String returns the variant name.
func (k Kind) String() string {
	switch k {
	case Application:
		return "application"
	case Temporary:
		return "temporary"
	case Token:
		return "token"
	case Basic:
		return "basic"
	default:
		return "unknown"
	}
}

// Credentials is a tagged variant over the four authentication schemes.
// Only the fields relevant to the variant's Kind are populated; the
// constructors enforce the per-variant invariants.
type Credentials struct {
	kind Kind

	// ConsumerKey and ConsumerSecret identify the application. Set for
	// all OAuth variants.
	ConsumerKey    string
	ConsumerSecret string

	// TokenKey and TokenSecret identify the user. Both are set for
	// Temporary and Token credentials and both are empty otherwise.
	TokenKey    string
	TokenSecret string

	// Username and Password are set only for Basic credentials.
	Username string
	Password string

	// CallbackConfirmed reports whether the server confirmed the OAuth
	// callback during the token request. Meaningful for Temporary
	// credentials only.
	CallbackConfirmed bool

	// Extra holds additional fields returned by the token endpoints,
	// such as user_id and screen_name on access tokens.
	Extra map[string]string
}

// Kind returns the credentials variant.
func (c *Credentials) Kind() Kind {
	return c.kind
}

// NewApplicationCredentials returns application-only credentials. Both the
// consumer key and secret are required.
func NewApplicationCredentials(consumerKey, consumerSecret string) (*Credentials, error) {
	if err := requireConsumer(consumerKey, consumerSecret); err != nil {
		return nil, err
	}
	return &Credentials{
		kind:           Application,
		ConsumerKey:    consumerKey,
		ConsumerSecret: consumerSecret,
	}, nil
}

// NewTemporaryCredentials returns mid-handshake credentials carrying an
// unconfirmed request token.
func NewTemporaryCredentials(consumerKey, consumerSecret, requestTokenKey, requestTokenSecret string) (*Credentials, error) {
	if err := requireConsumer(consumerKey, consumerSecret); err != nil {
		return nil, err
	}
	if err := requireTokenPair(requestTokenKey, requestTokenSecret); err != nil {
		return nil, err
	}
	return &Credentials{
		kind:           Temporary,
		ConsumerKey:    consumerKey,
		ConsumerSecret: consumerSecret,
		TokenKey:       requestTokenKey,
		TokenSecret:    requestTokenSecret,
	}, nil
}

// NewTokenCredentials returns fully authorized credentials carrying a
// confirmed access token.
func NewTokenCredentials(consumerKey, consumerSecret, accessTokenKey, accessTokenSecret string) (*Credentials, error) {
	if err := requireConsumer(consumerKey, consumerSecret); err != nil {
		return nil, err
	}
	if err := requireTokenPair(accessTokenKey, accessTokenSecret); err != nil {
		return nil, err
	}
	return &Credentials{
		kind:           Token,
		ConsumerKey:    consumerKey,
		ConsumerSecret: consumerSecret,
		TokenKey:       accessTokenKey,
		TokenSecret:    accessTokenSecret,
	}, nil
}

// NewBasicCredentials returns HTTP Basic credentials. Both the username and
// password are required.
func NewBasicCredentials(username, password string) (*Credentials, error) {
	if username == "" {
		return nil, &apierrors.CredentialsError{Field: "Username", Message: "username is required"}
	}
	if password == "" {
		return nil, &apierrors.CredentialsError{Field: "Password", Message: "password is required"}
	}
	return &Credentials{
		kind:     Basic,
		Username: username,
		Password: password,
	}, nil
}

func requireConsumer(key, secret string) error {
	if key == "" {
		return &apierrors.CredentialsError{Field: "ConsumerKey", Message: "consumer key is required"}
	}
	if secret == "" {
		return &apierrors.CredentialsError{Field: "ConsumerSecret", Message: "consumer secret is required"}
	}
	return nil
}

// requireTokenPair enforces the token invariant: key and secret are both
// present or both absent, and for token-carrying variants both present.
func requireTokenPair(key, secret string) error {
	if key == "" || secret == "" {
		return &apierrors.CredentialsError{Field: "TokenKey", Message: "token key and secret must both be present"}
	}
	return nil
}

// signFunc signs an invocation at the given instant with the given nonce.
// The instant and nonce are parameters so that tests can pin them.
type signFunc func(c *Credentials, inv *types.Invocation, now time.Time, nonce string) (*types.SignedRequest, error)

// signers dispatches signing per credentials variant.
var signers = map[Kind]signFunc{
	Application: signOAuth,
	Temporary:   signOAuth,
	Token:       signOAuth,
	Basic:       signBasic,
}

// Sign applies the variant's authorization scheme to the invocation and
// returns an immutable signed request ready for transport.
func (c *Credentials) Sign(inv *types.Invocation) (*types.SignedRequest, error) {
	return signers[c.kind](c, inv, time.Now(), internal.Nonce())
}

// signOAuth merges the OAuth protocol parameters into the invocation's
// parameter set, computes the HMAC-SHA1 signature over the base string, and
// places the signed parameters either in the query string (GET) or in a
// form-encoded body (all other verbs). Query parameters already on the URL
// join the signed set, so the rebuilt request never carries two query
// strings; explicit invocation parameters take precedence over them.
func signOAuth(c *Credentials, inv *types.Invocation, now time.Time, nonce string) (*types.SignedRequest, error) {
	baseURL, params, err := internal.SplitURL(inv.URL)
	if err != nil {
		return nil, err
	}
	for k, v := range inv.Params {
		params[k] = v
	}
	params["oauth_nonce"] = nonce
	params["oauth_timestamp"] = strconv.FormatInt(now.Unix(), 10)
	params["oauth_version"] = "1.0"
	params["oauth_signature_method"] = "HMAC-SHA1"
	params["oauth_consumer_key"] = c.ConsumerKey
	if c.TokenKey != "" {
		params["oauth_token"] = c.TokenKey
	}

	base, err := internal.SignatureBase(inv.Method, baseURL, params)
	if err != nil {
		return nil, err
	}
	params["oauth_signature"] = internal.HMACSHA1(base, c.ConsumerSecret, c.TokenSecret)

	encoded := internal.EncodeParams(params)
	headers := copyHeaders(inv.Headers)

	if inv.Method == http.MethodGet {
		requestURL := baseURL
		if encoded != "" {
			requestURL += "?" + encoded
		}
		return &types.SignedRequest{
			Method:  inv.Method,
			URL:     requestURL,
			Headers: headers,
			Format:  inv.Format,
		}, nil
	}

	headers["Content-Type"] = "application/x-www-form-urlencoded"
	return &types.SignedRequest{
		Method:   inv.Method,
		URL:      baseURL,
		Headers:  headers,
		PostData: encoded,
		Format:   inv.Format,
	}, nil
}

// signBasic performs no parameter signing: it sets the Authorization header
// and never places anything in the body. Parameters go to the query string
// for every verb, merged with any query parameters already on the URL.
func signBasic(c *Credentials, inv *types.Invocation, _ time.Time, _ string) (*types.SignedRequest, error) {
	headers := copyHeaders(inv.Headers)
	headers["Authorization"] = "Basic " + base64.StdEncoding.EncodeToString([]byte(c.Username+":"+c.Password))

	requestURL, params, err := internal.SplitURL(inv.URL)
	if err != nil {
		return nil, err
	}
	for k, v := range inv.Params {
		params[k] = v
	}
	if query := internal.EncodeParams(params); query != "" {
		requestURL += "?" + query
	}

	return &types.SignedRequest{
		Method:  inv.Method,
		URL:     requestURL,
		Headers: headers,
		Format:  inv.Format,
	}, nil
}

func copyHeaders(headers map[string]string) map[string]string {
	copied := make(map[string]string, len(headers)+2)
	for k, v := range headers {
		copied[k] = v
	}
	return copied
}
