package gtaw

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	apierrors "github.com/okuzmin/go-twitter-api-wrapper/pkg/errors"
	"github.com/okuzmin/go-twitter-api-wrapper/pkg/format"
	"github.com/okuzmin/go-twitter-api-wrapper/pkg/types"
)

// Token endpoints are host-relative: the handshake lives outside the
// versioned API prefix. Responses are form-encoded, not JSON.
var (
	requestTokenOperation = types.Operation{Method: http.MethodPost, Path: "/oauth/request_token", Format: format.Form{}}
	accessTokenOperation  = types.Operation{Method: http.MethodPost, Path: "/oauth/access_token", Format: format.Form{}}
)

const authorizePath = "/oauth/authorize"

// RequestTemporaryCredentials performs the first leg of the three-legged
// OAuth handshake: Application credentials request an unconfirmed token
// from the token-request endpoint. An empty callbackURL omits the
// oauth_callback parameter (out-of-band / PIN flow).
//
// A server-side callback rejection surfaces as *errors.CallbackError.
func (c *Client) RequestTemporaryCredentials(ctx context.Context, app *Credentials, callbackURL string) (*Credentials, error) {
	if app == nil || app.Kind() != Application {
		return nil, &apierrors.CredentialsError{Message: "application credentials are required"}
	}

	params := map[string]any{}
	if callbackURL != "" {
		params["oauth_callback"] = callbackURL
	}

	fields, err := c.callForm(ctx, app, requestTokenOperation, params)
	if err != nil {
		return nil, err
	}

	temp, err := NewTemporaryCredentials(app.ConsumerKey, app.ConsumerSecret, fields["oauth_token"], fields["oauth_token_secret"])
	if err != nil {
		return nil, &apierrors.DecodeError{Message: "token request response is missing the token pair"}
	}
	temp.CallbackConfirmed = strings.EqualFold(fields["oauth_callback_confirmed"], "true")
	return temp, nil
}

// AuthorizationURL returns the URL the user must visit to approve the
// temporary token.
func (c *Client) AuthorizationURL(temp *Credentials) (string, error) {
	if temp == nil || temp.Kind() != Temporary {
		return "", &apierrors.CredentialsError{Message: "temporary credentials are required"}
	}
	return c.normalizeURL(authorizePath, "") + "?oauth_token=" + url.QueryEscape(temp.TokenKey), nil
}

// ConfirmCredentials performs the final leg of the handshake: the verifier
// (a PIN code or the oauth_verifier callback parameter) exchanges the
// temporary token for an access token. An empty or rejected verifier
// surfaces as *errors.NotPermittedError.
//
// Extra fields of the access-token response, such as user_id and
// screen_name, are kept in the returned credentials' Extra map.
func (c *Client) ConfirmCredentials(ctx context.Context, temp *Credentials, verifier string) (*Credentials, error) {
	if temp == nil || temp.Kind() != Temporary {
		return nil, &apierrors.CredentialsError{Message: "temporary credentials are required"}
	}
	if strings.TrimSpace(verifier) == "" {
		return nil, &apierrors.NotPermittedError{Message: "verifier is empty"}
	}

	fields, err := c.callForm(ctx, temp, accessTokenOperation, map[string]any{"oauth_verifier": verifier})
	if err != nil {
		return nil, err
	}

	token, err := NewTokenCredentials(temp.ConsumerKey, temp.ConsumerSecret, fields["oauth_token"], fields["oauth_token_secret"])
	if err != nil {
		return nil, &apierrors.DecodeError{Message: "access token response is missing the token pair"}
	}

	for k, v := range fields {
		switch k {
		case "oauth_token", "oauth_token_secret":
		default:
			if token.Extra == nil {
				token.Extra = make(map[string]string)
			}
			token.Extra[k] = v
		}
	}
	return token, nil
}

// callForm runs a handshake operation and narrows the decoded value to the
// flat field map produced by the form codec.
func (c *Client) callForm(ctx context.Context, creds *Credentials, op types.Operation, params map[string]any) (map[string]string, error) {
	value, err := c.Call(ctx, creds, op, params)
	if err != nil {
		return nil, err
	}
	fields, ok := value.(map[string]string)
	if !ok {
		return nil, &apierrors.DecodeError{Message: "token endpoint did not return form-encoded fields"}
	}
	return fields, nil
}
