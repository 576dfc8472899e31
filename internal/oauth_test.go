package internal

import (
	"strings"
	"testing"
)

func TestPercentEncode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"unreserved passthrough", "abcABC123-._~", "abcABC123-._~"},
		{"space", "a b", "a%20b"},
		{"plus", "1+1", "1%2B1"},
		{"ampersand and equals", "a&b=c", "a%26b%3Dc"},
		{"bang", "request!", "request%21"},
		{"utf8 multibyte", "привет", "%D0%BF%D1%80%D0%B8%D0%B2%D0%B5%D1%82"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PercentEncode(tt.input); got != tt.want {
				t.Errorf("PercentEncode(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// The reference values below are the worked HMAC-SHA1 example from the
// Twitter API documentation ("Creating a signature").
const (
	refBaseString = "POST&https%3A%2F%2Fapi.twitter.com%2F1%2Fstatuses%2Fupdate.json&" +
		"include_entities%3Dtrue%26" +
		"oauth_consumer_key%3Dxvz1evFS4wEEPTGEFPHBog%26" +
		"oauth_nonce%3DkYjzVBB8Y0ZFabxSWbWovY3uYSQ2pTgmZeNu2VS4cg%26" +
		"oauth_signature_method%3DHMAC-SHA1%26" +
		"oauth_timestamp%3D1318622958%26" +
		"oauth_token%3D370773112-GmHxMAgYyLbNEtIKZeRNFsMKPR9EyMZeS9weJAEb%26" +
		"oauth_version%3D1.0%26" +
		"status%3DHello%2520Ladies%2520%252B%2520Gentlemen%252C%2520a%2520signed%2520OAuth%2520request%2521"

	refConsumerSecret = "kAcSOqF21Fu85e7zjz7ZN2U4ZRhfV3WpwPAoE3Z7kBw"
	refTokenSecret    = "LswwdoUaIvS8ltyTt5jkRh4J50vUPVVHtR2YPi5kE"
	refSignature      = "tpMAJpQqzVGxzRVmdqIsGVzDqHo="
)

func refParams() map[string]string {
	return map[string]string{
		"status":                 "Hello Ladies + Gentlemen, a signed OAuth request!",
		"include_entities":       "true",
		"oauth_consumer_key":     "xvz1evFS4wEEPTGEFPHBog",
		"oauth_nonce":            "kYjzVBB8Y0ZFabxSWbWovY3uYSQ2pTgmZeNu2VS4cg",
		"oauth_signature_method": "HMAC-SHA1",
		"oauth_timestamp":        "1318622958",
		"oauth_token":            "370773112-GmHxMAgYyLbNEtIKZeRNFsMKPR9EyMZeS9weJAEb",
		"oauth_version":          "1.0",
	}
}

func TestSignatureBaseReferenceVector(t *testing.T) {
	t.Parallel()

	base, err := SignatureBase("POST", "https://api.twitter.com/1/statuses/update.json", refParams())
	if err != nil {
		t.Fatalf("SignatureBase returned error: %v", err)
	}
	if base != refBaseString {
		t.Errorf("signature base mismatch:\n got %s\nwant %s", base, refBaseString)
	}
}

func TestHMACSHA1ReferenceVector(t *testing.T) {
	t.Parallel()

	if got := HMACSHA1(refBaseString, refConsumerSecret, refTokenSecret); got != refSignature {
		t.Errorf("HMACSHA1 = %q, want %q", got, refSignature)
	}
}

func TestSignatureBaseNormalizesURL(t *testing.T) {
	t.Parallel()

	base, err := SignatureBase("get", "HTTP://Example.COM:80/path", map[string]string{"a": "1"})
	if err != nil {
		t.Fatalf("SignatureBase returned error: %v", err)
	}
	want := "GET&" + PercentEncode("http://example.com/path") + "&" + PercentEncode("a=1")
	if base != want {
		t.Errorf("base = %q, want %q", base, want)
	}
}

func TestSignatureBaseMergesURLQuery(t *testing.T) {
	t.Parallel()

	base, err := SignatureBase("GET", "https://example.com/path?b=2", map[string]string{"a": "1"})
	if err != nil {
		t.Fatalf("SignatureBase returned error: %v", err)
	}
	if !strings.Contains(base, PercentEncode("a=1&b=2")) {
		t.Errorf("base %q does not contain merged sorted params", base)
	}
}

func TestSplitURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      string
		wantBase   string
		wantParams map[string]string
	}{
		{"no query", "https://example.com/path", "https://example.com/path", map[string]string{}},
		{"single param", "https://example.com/path?a=1", "https://example.com/path", map[string]string{"a": "1"}},
		{"encoded param", "https://example.com/path?q=a%20b&track=golang", "https://example.com/path",
			map[string]string{"q": "a b", "track": "golang"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, params, err := SplitURL(tt.input)
			if err != nil {
				t.Fatalf("SplitURL returned error: %v", err)
			}
			if base != tt.wantBase {
				t.Errorf("base = %q, want %q", base, tt.wantBase)
			}
			if len(params) != len(tt.wantParams) {
				t.Fatalf("params = %v, want %v", params, tt.wantParams)
			}
			for k, v := range tt.wantParams {
				if params[k] != v {
					t.Errorf("params[%q] = %q, want %q", k, params[k], v)
				}
			}
		})
	}
}

func TestEncodeParamsSortedAndEncoded(t *testing.T) {
	t.Parallel()

	got := EncodeParams(map[string]string{"b": "2", "a": "1 2"})
	if got != "a=1%202&b=2" {
		t.Errorf("EncodeParams = %q, want %q", got, "a=1%202&b=2")
	}
}

func TestNonceUnique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		n := Nonce()
		if n == "" {
			t.Fatal("Nonce returned an empty string")
		}
		if strings.Contains(n, "-") {
			t.Fatalf("Nonce %q contains a hyphen", n)
		}
		if seen[n] {
			t.Fatalf("Nonce %q repeated", n)
		}
		seen[n] = true
	}
}
