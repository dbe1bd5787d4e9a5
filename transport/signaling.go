package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/n0remac/meetcore/apierr"
)

// sdpCompletionTimeout bounds the HTTP join round trip (sending the offer
// and reading the answer); exceeding it yields DeadlineExceeded. Offer
// generation and applying the answer as remote description are not
// covered by this timeout.
const sdpCompletionTimeout = 3 * time.Second

type joinRequest struct {
	Offer string `json:"offer"`
}

type joinResponse struct {
	Answer string `json:"answer"`
	Error  *struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

// JoinConference performs the HTTP signaling round trip: POST the offer
// SDP to `<endpoint>/spaces/<conferenceID>:connectActiveConference` and
// return either the answer SDP or the server's mapped error status.
func JoinConference(ctx context.Context, client *http.Client, endpoint, conferenceID, token, offerSDP string) (string, *apierr.Status) {
	endpoint = strings.TrimRight(endpoint, "/")
	if endpoint == "" {
		return "", apierr.New(apierr.InvalidArgument, "join endpoint must not be empty")
	}

	url := fmt.Sprintf("%s/spaces/%s:connectActiveConference", endpoint, conferenceID)

	body, err := json.Marshal(joinRequest{Offer: offerSDP})
	if err != nil {
		return "", apierr.New(apierr.Internal, err.Error())
	}

	ctx, cancel := context.WithTimeout(ctx, sdpCompletionTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", apierr.New(apierr.Internal, err.Error())
	}
	req.Header.Set("Content-Type", "application/json;charset=UTF-8")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", apierr.New(apierr.DeadlineExceeded, "join request timed out")
		}
		return "", apierr.New(apierr.Internal, err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apierr.New(apierr.Internal, err.Error())
	}

	var parsed joinResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", apierr.New(apierr.Internal, "Unexpected or malformed response from Meet servers.")
	}

	if parsed.Error != nil {
		return "", apierr.New(apierr.KindFromSymbol(parsed.Error.Status), parsed.Error.Message)
	}
	if parsed.Answer == "" {
		return "", apierr.New(apierr.Internal, "Unexpected or malformed response from Meet servers.")
	}
	return parsed.Answer, apierr.Ok()
}
