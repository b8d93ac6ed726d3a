package auth

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/idilsaglam/tada/internal/store/jsonstore"
)

// TokenEnv overrides any stored token.
const TokenEnv = "TADA_TOKEN"

const credFileName = "credentials.json"

// Token sources reported by TokenInfo.Source.
const (
	SourceEnv  = "env"
	SourceFile = "file"
)

type TokenInfo struct {
	Token     string     `json:"token"`
	Source    string     `json:"source"`     // "env" | "file"
	CreatedAt time.Time  `json:"created_at"` // when we saved to file
	ExpiresAt *time.Time `json:"expires_at"` // optional (JWT or server-provided)
}

// Credentials stores the API token under dir (normally ~/.tada).
type Credentials struct {
	fs     afero.Fs
	dir    string
	getenv func(string) string
	now    func() time.Time
}

// NewCredentials keeps credentials in dir on fs.
func NewCredentials(fs afero.Fs, dir string) *Credentials {
	return &Credentials{fs: fs, dir: dir, getenv: os.Getenv, now: time.Now}
}

func (c *Credentials) path() string { return filepath.Join(c.dir, credFileName) }

// Get returns the active token: TADA_TOKEN first, then the credentials
// file. It returns nil, nil when not logged in.
func (c *Credentials) Get() (*TokenInfo, error) {
	if env := strings.TrimSpace(c.getenv(TokenEnv)); env != "" {
		return &TokenInfo{Token: stripBearer(env), Source: SourceEnv}, nil
	}
	var ti TokenInfo
	found, err := jsonstore.Load(c.fs, c.path(), &ti)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	if !found {
		return nil, nil
	}
	ti.Token = stripBearer(ti.Token)
	ti.Source = SourceFile
	return &ti, nil
}

// Token implements api.TokenSource. Not being logged in yields "".
func (c *Credentials) Token() (string, error) {
	ti, err := c.Get()
	if err != nil || ti == nil {
		return "", err
	}
	return ti.Token, nil
}

// Set saves token owner-only. When expires is nil and the token is a JWT
// with an exp claim, that expiry is recorded.
func (c *Credentials) Set(token string, expires *time.Time) error {
	token = stripBearer(strings.TrimSpace(token))
	if token == "" {
		return fmt.Errorf("empty token")
	}
	if expires == nil {
		if cl, err := ParseClaims(token); err == nil && cl.ExpiresAt != nil {
			exp := cl.ExpiresAt.Time
			expires = &exp
		}
	}
	ti := TokenInfo{
		Token:     token,
		Source:    SourceFile,
		CreatedAt: c.now(),
		ExpiresAt: expires,
	}
	if err := jsonstore.Save(c.fs, c.path(), ti, 0o600); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	return nil
}

// Delete removes the credentials file.
func (c *Credentials) Delete() error {
	return jsonstore.Remove(c.fs, c.path())
}

func stripBearer(s string) string {
	if strings.HasPrefix(strings.ToLower(s), "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}
