package identity

import (
	"encoding/json"
	"fmt"

	"github.com/dtroode/spendy/internal/model"
)

// responseShape tags which variant of the auth response a body carried.
type responseShape int

const (
	shapeUnknown responseShape = iota
	shapePair
	shapeLegacy
)

// authResponse covers both the {accessToken, refreshToken} and the legacy {token} bodies.
type authResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	Token        string `json:"token"`
}

func (r authResponse) shape() responseShape {
	switch {
	case r.AccessToken != "" && r.RefreshToken != "":
		return shapePair
	case r.Token != "":
		return shapeLegacy
	default:
		return shapeUnknown
	}
}

// decodeAuthResponse tries the token pair first, then the legacy single token which is used
// as both access and refresh token.
func decodeAuthResponse(body []byte, allowLegacy bool) (model.TokenPair, error) {
	var resp authResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return model.TokenPair{}, fmt.Errorf("%w: %w", model.ErrMalformedResponse, err)
	}

	switch resp.shape() {
	case shapePair:
		return model.TokenPair{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}, nil
	case shapeLegacy:
		if allowLegacy {
			return model.TokenPair{AccessToken: resp.Token, RefreshToken: resp.Token}, nil
		}
	}
	return model.TokenPair{}, fmt.Errorf("%w: no tokens in response", model.ErrMalformedResponse)
}
