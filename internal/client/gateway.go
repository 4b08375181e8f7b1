package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

type contextKey string

// retriedKey marks a request that already went through one refresh cycle.
// The replayed request carries it, so a second 401 passes straight through.
const retriedKey contextKey = "authRetried"

// authTransport decorates an http.RoundTripper with the session protocol:
// attach the bearer token, and on a 401 refresh the access token once and
// replay the original request. Callers never observe the intermediate 401.
type authTransport struct {
	base       http.RoundTripper
	store      CredentialStore
	refreshURL string

	// onSessionEnd fires after the store has been cleared because no usable
	// refresh token remained. Optional.
	onSessionEnd func()
}

func newAuthTransport(base http.RoundTripper, store CredentialStore, refreshURL string, onSessionEnd func()) *authTransport {
	if base == nil {
		base = http.DefaultTransport
	}

	return &authTransport{
		base:         base,
		store:        store,
		refreshURL:   refreshURL,
		onSessionEnd: onSessionEnd,
	}
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	cred, hasCred := t.store.Load()
	authedReq := req
	if hasCred && cred.AccessToken != "" {
		authedReq = req.Clone(req.Context())
		authedReq.Header.Set("Authorization", "Bearer "+cred.AccessToken)
	}

	resp, err := t.base.RoundTrip(authedReq)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	// A replayed request that still gets 401 is final. One refresh per
	// logical request, never more.
	if req.Context().Value(retriedKey) != nil {
		return resp, nil
	}

	if !hasCred || cred.RefreshToken == "" {
		t.endSession()

		return resp, nil
	}

	newAccess, refreshErr := t.refresh(req.Context(), cred.RefreshToken)
	if refreshErr != nil {
		t.endSession()
		closeBody(resp)

		return nil, errors.Wrap(ErrSessionTerminated, refreshErr.Error())
	}

	if err := t.store.UpdateAccessToken(newAccess); err != nil {
		return resp, nil
	}

	retryReq, ok := rewindRequest(req)
	if !ok {
		// The body cannot be replayed, so the original 401 stands.
		return resp, nil
	}
	closeBody(resp)
	retryReq.Header.Set("Authorization", "Bearer "+newAccess)

	return t.base.RoundTrip(retryReq)
}

// refresh exchanges the refresh token for a new access token using the base
// transport directly, so the exchange itself can never recurse into the
// retry protocol.
func (t *authTransport) refresh(ctx context.Context, refreshToken string) (string, error) {
	payload, err := json.Marshal(map[string]string{"refresh": refreshToken})
	if err != nil {
		return "", errors.Wrap(err, "marshal refresh request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.refreshURL, bytes.NewReader(payload))
	if err != nil {
		return "", errors.Wrap(err, "build refresh request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return "", errors.Wrap(err, "send refresh request")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", errors.Wrap(err, "read refresh response")
	}
	if resp.StatusCode != http.StatusOK {
		return "", newAPIError(resp.StatusCode, body)
	}

	var decoded struct {
		Access string `json:"access"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", errors.Wrap(err, "decode refresh response")
	}
	if decoded.Access == "" {
		return "", errors.New("refresh response missing access token")
	}

	return decoded.Access, nil
}

func (t *authTransport) endSession() {
	_ = t.store.Clear()
	if t.onSessionEnd != nil {
		t.onSessionEnd()
	}
}

// rewindRequest clones the request for one replay, restoring the body from
// GetBody. Requests with a non-replayable body cannot be retried.
func rewindRequest(req *http.Request) (*http.Request, bool) {
	clone := req.Clone(context.WithValue(req.Context(), retriedKey, true))
	if req.Body == nil || req.GetBody == nil {
		if req.Body != nil {
			return nil, false
		}

		return clone, true
	}

	body, err := req.GetBody()
	if err != nil {
		return nil, false
	}
	clone.Body = body

	return clone, true
}

func closeBody(resp *http.Response) {
	if resp != nil && resp.Body != nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))
		_ = resp.Body.Close()
	}
}
