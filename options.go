package criteria

const (
	driverMemory   = "memory"
	driverSQLite   = "sqlite"
	driverPostgres = "postgres"
	driverRedis    = "redis"
)

// Option configures the Client.
type Option func(*clientConfig)

type clientConfig struct {
	driver   string
	addrs    []string
	password string
	path     string
	dsn      string

	defaultLimit int
	maxLimit     int
}

// WithMemory keeps records in process memory. This is the default.
func WithMemory() Option {
	return func(c *clientConfig) {
		c.driver = driverMemory
	}
}

// WithSQLite stores records in a SQLite database file (":memory:" for a private in-memory database).
func WithSQLite(path string) Option {
	return func(c *clientConfig) {
		c.driver = driverSQLite
		c.path = path
	}
}

// WithPostgres stores records in PostgreSQL. Migrations run on connect.
func WithPostgres(dsn string) Option {
	return func(c *clientConfig) {
		c.driver = driverPostgres
		c.dsn = dsn
	}
}

// WithRedis stores records as Redis hashes.
func WithRedis(addrs ...string) Option {
	return func(c *clientConfig) {
		c.driver = driverRedis
		c.addrs = addrs
	}
}

// WithPassword sets the Redis password.
func WithPassword(password string) Option {
	return func(c *clientConfig) {
		c.password = password
	}
}

// WithPagination overrides the default and maximum page sizes.
func WithPagination(defaultLimit, maxLimit int) Option {
	return func(c *clientConfig) {
		c.defaultLimit = defaultLimit
		c.maxLimit = maxLimit
	}
}
