package client

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// CredentialPair holds the access and refresh tokens issued by the remote side.
// Both values are opaque to this package.
type CredentialPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Profile describes the authenticated identity returned by the remote side.
// Only the commonly used fields are typed; the whole document is kept in Raw.
type Profile struct {
	ID    string         `json:"id"`
	Email string         `json:"email"`
	Name  string         `json:"name,omitempty"`
	Raw   map[string]any `json:"-"`
}

// UnmarshalJSON accepts numeric or string IDs and keeps every field in Raw.
// Numbers are kept as their JSON literal, so large IDs stay exact.
func (p *Profile) UnmarshalJSON(data []byte) error {
	type Alias Profile
	aux := &struct {
		ID any `json:"id"`
		*Alias
	}{
		Alias: (*Alias)(p),
	}
	if err := decodeNumbers(data, aux); err != nil {
		return err
	}

	switch v := aux.ID.(type) {
	case nil:
		p.ID = ""
	case string:
		p.ID = v
	case json.Number:
		p.ID = v.String()
	default:
		return fmt.Errorf("unsupported profile id type %T", v)
	}

	var raw map[string]any
	if err := decodeNumbers(data, &raw); err != nil {
		return err
	}
	p.Raw = raw
	return nil
}

// decodeNumbers unmarshals data into out, decoding numbers as json.Number.
func decodeNumbers(data []byte, out any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(out)
}

// MarshalJSON writes Raw back out with the typed fields layered on top.
func (p Profile) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Raw)+3)
	for k, v := range p.Raw {
		out[k] = v
	}
	out["id"] = p.ID
	out["email"] = p.Email
	if p.Name != "" {
		out["name"] = p.Name
	}
	return json.Marshal(out)
}

// LoginResponse is the body returned by the login endpoint.
type LoginResponse struct {
	CredentialPair
	User *Profile `json:"user"`
}

// RefreshResponse is the body returned by the refresh endpoint.
// RefreshToken is empty when the server does not rotate it.
type RefreshResponse struct {
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken,omitempty"`
	User         *Profile `json:"user,omitempty"`
}

type meResponse struct {
	User *Profile `json:"user"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}
