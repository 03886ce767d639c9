// Package authnet talks to the Authorize.NET AIM and CIM APIs and verifies
// relay notifications.
package authnet

import (
	"net/http"
	"time"
)

const (
	ProductionAIMURL = "https://secure2.authorize.net/gateway/transact.dll"
	TestAIMURL       = "https://test.authorize.net/gateway/transact.dll"
	ProductionCIMURL = "https://api.authorize.net/xml/v1/request.api"
	TestCIMURL       = "https://apitest.authorize.net/xml/v1/request.api"

	aimVersion       = "3.1"
	defaultDelimChar = "|"
)

// Config contains merchant credentials and endpoints for the gateway adapters.
type Config struct {
	LoginID string
	TranKey string

	// Debug selects the sandbox endpoints.
	Debug bool

	// Optional endpoint overrides. Empty means the default for Debug.
	AIMURL string
	CIMURL string

	Timeout   time.Duration
	DelimChar string

	// ValidationMode for CIM profile creation: none, testMode or liveMode.
	ValidationMode string
}

// DefaultConfig returns configuration for the given credentials.
func DefaultConfig(loginID, tranKey string, debug bool) *Config {
	return &Config{
		LoginID:        loginID,
		TranKey:        tranKey,
		Debug:          debug,
		Timeout:        30 * time.Second,
		DelimChar:      defaultDelimChar,
		ValidationMode: "none",
	}
}

func (c *Config) aimURL() string {
	if c.AIMURL != "" {
		return c.AIMURL
	}
	if c.Debug {
		return TestAIMURL
	}
	return ProductionAIMURL
}

func (c *Config) cimURL() string {
	if c.CIMURL != "" {
		return c.CIMURL
	}
	if c.Debug {
		return TestCIMURL
	}
	return ProductionCIMURL
}

func (c *Config) validationMode() string {
	if c.ValidationMode == "" {
		return "none"
	}
	return c.ValidationMode
}

func (c *Config) delimChar() string {
	if c.DelimChar == "" {
		return defaultDelimChar
	}
	return c.DelimChar
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
		IdleConnTimeout:     90 * time.Second,
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
