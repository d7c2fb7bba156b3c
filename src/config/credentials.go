package config

import (
	"fmt"
	"net/url"
	"os"

	"github.com/gagliardetto/solana-go"
)

const (
	EnvSignerPrivateKey = "SIGNER_PRIVATE_KEY"
	EnvRpcURL           = "RPC_URL"
)

// MinSignerKeyLength is the shortest base58 string accepted as a signer
// key. A 32-byte seed never encodes shorter than this.
const MinSignerKeyLength = 32

// Credentials are the operator settings every inscription spends
// against. They are read fresh from the environment on every call and
// never cached, so rotated values take effect immediately.
type Credentials struct {
	SignerKey string
	RpcURL    string
}

type CredentialCheck struct {
	Valid   bool
	Message string
}

// ConfigError is a fatal credential problem. It is never retried and
// always surfaces before any network call.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}

func ReadCredentials() Credentials {
	return Credentials{
		SignerKey: os.Getenv(EnvSignerPrivateKey),
		RpcURL:    os.Getenv(EnvRpcURL),
	}
}

// CheckRequired validates the current credentials. The signer key must
// be base58 (the alphabet excludes 0, O, I and l) of at least
// MinSignerKeyLength characters; the RPC endpoint must be an absolute
// http or https URL. When both settings are absent the message names
// both.
func CheckRequired() CredentialCheck {
	creds := ReadCredentials()

	if creds.SignerKey == "" && creds.RpcURL == "" {
		return CredentialCheck{
			Valid:   false,
			Message: fmt.Sprintf("Missing required settings: %s and %s", EnvSignerPrivateKey, EnvRpcURL),
		}
	}

	if !validSignerKey(creds.SignerKey) {
		return CredentialCheck{
			Valid:   false,
			Message: fmt.Sprintf("Invalid SIGNER_PRIVATE_KEY: must be base58 and at least %d characters", MinSignerKeyLength),
		}
	}

	if !validRpcURL(creds.RpcURL) {
		return CredentialCheck{
			Valid:   false,
			Message: "Invalid RPC endpoint: must be an absolute http or https URL",
		}
	}

	return CredentialCheck{Valid: true}
}

// AssertRequired runs the same checks and returns a ConfigError naming
// the failing setting(s), or nil when everything is present and valid.
func AssertRequired() error {
	check := CheckRequired()
	if check.Valid {
		return nil
	}
	return &ConfigError{Message: check.Message}
}

func validSignerKey(key string) bool {
	if len(key) < MinSignerKeyLength {
		return false
	}
	_, err := solana.PrivateKeyFromBase58(key)
	return err == nil
}

func validRpcURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}
