package config

// RequestConfig selects and tunes the request backend. Immutable after
// Load.
//
// Example YAML:
//
//	request:
//	  kind: http
//	  host: "httpbin.org"
//	  path: "post"
//	  method: "POST"
//	  reply_wait_ms: 3000
//	  headers: "Authorization: bear\nContent-Type: application/json"
type RequestConfig struct {
	// Kind: http or publish.
	Kind string `mapstructure:"kind"`

	// Host is the server or broker address; Path is the URL path or
	// topic, with no leading slash.
	Host string `mapstructure:"host"`
	Path string `mapstructure:"path"`
	// Port defaults by kind: 80 for http, 1883 for publish.
	Port int `mapstructure:"port"`

	// Method is the HTTP verb, uppercase.
	Method string `mapstructure:"method"`
	// Headers is a raw extra-header block appended verbatim; no
	// trailing newline.
	Headers string `mapstructure:"headers"`
	// ReplyWaitMS is the HTTP first-byte wait budget in ~1ms polls.
	ReplyWaitMS int `mapstructure:"reply_wait_ms"`

	// Username/Password are mandatory for the publish variant.
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	// ClientID defaults to the link identity when empty.
	ClientID string `mapstructure:"client_id"`
	// RetryDelayMS separates broker connect attempts.
	RetryDelayMS int `mapstructure:"retry_delay_ms"`
	// MaxAttempts bounds broker connects; 0 keeps the original
	// unbounded behavior.
	MaxAttempts int `mapstructure:"max_attempts"`
}
