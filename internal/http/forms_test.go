package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func formRequest(t *testing.T, form url.Values) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestParseCredentials(t *testing.T) {
	tests := []struct {
		name    string
		form    url.Values
		wantErr error
	}{
		{"valid", url.Values{"username": {"alice"}, "password": {"secret123"}}, nil},
		{"missing username", url.Values{"password": {"secret123"}}, errUsernameRequired},
		{"blank username", url.Values{"username": {"   "}, "password": {"secret123"}}, errUsernameRequired},
		{"missing password", url.Values{"username": {"alice"}}, errPasswordRequired},
		{"long username", url.Values{"username": {strings.Repeat("a", maxUsernameLen+1)}, "password": {"secret123"}}, errUsernameTooLong},
		{"long password", url.Values{"username": {"alice"}, "password": {strings.Repeat("p", maxPasswordLen+1)}}, errPasswordTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := parseCredentials(formRequest(t, tt.form))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestParseCredentialsTrimsUsernameOnly(t *testing.T) {
	form := url.Values{"username": {"  alice  "}, "password": {"  spaced  "}}
	username, password, err := parseCredentials(formRequest(t, form))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if username != "alice" {
		t.Fatalf("username not trimmed: %q", username)
	}
	if password != "  spaced  " {
		t.Fatalf("password must be kept verbatim: %q", password)
	}
}

func TestParsePostForm(t *testing.T) {
	tests := []struct {
		name    string
		form    url.Values
		wantErr error
	}{
		{"valid", url.Values{"title": {"Hello"}, "content": {"Body."}}, nil},
		{"missing title", url.Values{"content": {"Body."}}, errTitleRequired},
		{"missing content", url.Values{"title": {"Hello"}}, errContentRequired},
		{"long title", url.Values{"title": {strings.Repeat("t", maxTitleLen+1)}, "content": {"Body."}}, errTitleTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := parsePostForm(formRequest(t, tt.form))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
