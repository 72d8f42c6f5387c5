package httpx

import (
	"errors"
	"net/http"
	"strings"
)

const (
	maxUsernameLen = 50
	maxPasswordLen = 128
	maxTitleLen    = 200
)

var (
	errMalformedForm    = errors.New("malformed form body")
	errUsernameRequired = errors.New("username is required")
	errUsernameTooLong  = errors.New("username is too long")
	errPasswordRequired = errors.New("password is required")
	errPasswordTooLong  = errors.New("password is too long")
	errTitleRequired    = errors.New("title is required")
	errTitleTooLong     = errors.New("title is too long")
	errContentRequired  = errors.New("content is required")
)

// parseCredentials validates the signup and login forms. Every field is
// checked for presence before the auth service sees the request.
func parseCredentials(req *http.Request) (username, password string, err error) {
	if err := req.ParseForm(); err != nil {
		return "", "", errMalformedForm
	}
	username = strings.TrimSpace(req.PostFormValue("username"))
	password = req.PostFormValue("password")
	switch {
	case username == "":
		return "", "", errUsernameRequired
	case len(username) > maxUsernameLen:
		return "", "", errUsernameTooLong
	case password == "":
		return "", "", errPasswordRequired
	case len(password) > maxPasswordLen:
		return "", "", errPasswordTooLong
	}
	return username, password, nil
}

// parsePostForm validates the authoring form.
func parsePostForm(req *http.Request) (title, content string, err error) {
	if err := req.ParseForm(); err != nil {
		return "", "", errMalformedForm
	}
	title = strings.TrimSpace(req.PostFormValue("title"))
	content = strings.TrimSpace(req.PostFormValue("content"))
	switch {
	case title == "":
		return "", "", errTitleRequired
	case len(title) > maxTitleLen:
		return "", "", errTitleTooLong
	case content == "":
		return "", "", errContentRequired
	}
	return title, content, nil
}
