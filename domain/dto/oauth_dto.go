package dto

import "fmt"

// ExchangeRequest is the JSON body of POST /api/oauth/exchange.
type ExchangeRequest struct {
	Code        string `json:"code"`
	RedirectURI string `json:"redirect_uri"`
	Platform    string `json:"platform"`
}

// LogoutRequest is the JSON body of POST /api/oauth/logout.
type LogoutRequest struct {
	Platform string `json:"platform"`
}

// ProfileError carries the remote status and body of a failed profile fetch.
// An OAuth exchange still succeeds when the profile fetch fails; the error is
// returned alongside the success flag instead of aborting the exchange.
type ProfileError struct {
	Status int    `json:"status"`
	Body   string `json:"body"`
}

func (e *ProfileError) Error() string {
	return fmt.Sprintf("profile fetch failed: status=%d body=%s", e.Status, e.Body)
}
