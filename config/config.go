package config

// Config contains all application settings
type Config struct {
	BindPort    int    `mapstructure:"PORT" yaml:"port"`
	BindHost    string `mapstructure:"HOST" yaml:"host"`
	DatabaseURL string `mapstructure:"DATABASE_URL" yaml:"database_url"`
	RedisURL    string `mapstructure:"REDIS_URL" yaml:"redis_url"`

	// NATSServerURL is used when BusDriver is "nats".
	NATSServerURL string `mapstructure:"NATS_URL" yaml:"nats_url"`

	// BusDriver selects the pub/sub fanout transport between router
	// processes: "nats", "redis" or "loopback" (single process only).
	BusDriver string `mapstructure:"BUS" yaml:"bus"`

	// StoreDriver selects the durable backend for the offline mailbox and
	// the contact list: "postgres" or "memory".
	StoreDriver string `mapstructure:"STORE" yaml:"store"`

	JWTSecret string `mapstructure:"JWT_SECRET" yaml:"jwt_secret"`
	JWTIssuer string `mapstructure:"JWT_ISSUER" yaml:"jwt_issuer"`

	// PresenceTTLSeconds is the expiry window of the distributed presence
	// counters. A counter left behind by an ungraceful process death goes
	// away on its own within this window.
	PresenceTTLSeconds int `mapstructure:"PRESENCE_TTL" yaml:"presence_ttl"`

	// Version
	BuildVersion string `yaml:"-"`
	BuildHash    string `yaml:"-"`
	BuildTime    string `yaml:"-"`
}
