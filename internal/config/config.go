package config // package config loads application configuration from environment variables

import (
    "log"     // log is used to report configuration errors and halt execution
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types
    "time"    // time parses query timeouts
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Required values are enforced by must(); the
// remaining ones fall back to defaults that match a local development setup.
type Config struct {
    Env            string        // application environment (e.g. "dev", "prod")
    Port           string        // HTTP port to listen on
    DBDriver       string        // "mysql" (default) or "postgres"
    DBUser         string        // database username
    DBPass         string        // database password (optional)
    DBHost         string        // database host address
    DBPort         string        // database port number
    DBName         string        // database name
    DBSSLMode      string        // postgres sslmode (ignored for mysql)
    QueryTimeout   time.Duration // upper bound for a single store call
    JWTSecret      string        // secret used to sign JWTs
    AccessTTLMin   int           // access token time‑to‑live in minutes
    RefreshTTLDays int           // refresh token time‑to‑live in days
    BcryptCost     int           // bcrypt cost for password hashing
    CORSOrigin     string        // front-end origin allowed by CORS
    LogLevel       string        // debug | info | warn | error
    LogJSON        bool          // emit JSON log lines instead of text
    SMTP           SMTPConfig    // outbound mail settings
    AMQPURL        string        // RabbitMQ URL; empty sends mail directly
}

// SMTPConfig describes the mailbox used for registration confirmations.
// An empty User disables outbound mail.
type SMTPConfig struct {
    Host string
    Port int
    User string
    Pass string
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
    return Config{
        Env:            must("APP_ENV"),                           // environment (dev/test/prod)
        Port:           must("APP_PORT"),                          // port to bind the HTTP server
        DBDriver:       envStr("DB_DRIVER", "mysql"),              // sql driver name
        DBUser:         must("DB_USER"),                           // database user
        DBPass:         os.Getenv("DB_PASS"),                      // database password (empty allowed)
        DBHost:         must("DB_HOST"),                           // database host
        DBPort:         must("DB_PORT"),                           // database port
        DBName:         must("DB_NAME"),                           // database name
        DBSSLMode:      envStr("DB_SSLMODE", "disable"),           // postgres only
        QueryTimeout:   envDur("QUERY_TIMEOUT", 5*time.Second),    // per store call
        JWTSecret:      must("JWT_SECRET"),                        // secret used for signing JWTs
        AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),           // TTL for access tokens in minutes
        RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),         // TTL for refresh tokens in days
        BcryptCost:     mustInt("BCRYPT_COST"),                    // bcrypt cost factor
        CORSOrigin:     envStr("CORS_ORIGIN", "http://localhost:3000"),
        LogLevel:       envStr("LOG_LEVEL", "info"),
        LogJSON:        envBool("LOG_JSON", false),
        SMTP: SMTPConfig{
            Host: envStr("SMTP_HOST", "smtp.gmail.com"),
            Port: envInt("SMTP_PORT", 587),
            User: os.Getenv("EMAIL_USER"),
            Pass: os.Getenv("EMAIL_PASS"),
        },
        AMQPURL: amqpURL(),
    }
}

// LoadDB reads only the database settings.  It is used by one-shot tools
// that never serve HTTP.
func LoadDB() Config {
    return Config{
        DBDriver:     envStr("DB_DRIVER", "mysql"),
        DBUser:       must("DB_USER"),
        DBPass:       os.Getenv("DB_PASS"),
        DBHost:       must("DB_HOST"),
        DBPort:       must("DB_PORT"),
        DBName:       must("DB_NAME"),
        DBSSLMode:    envStr("DB_SSLMODE", "disable"),
        QueryTimeout: envDur("QUERY_TIMEOUT", 5*time.Second),
        BcryptCost:   envInt("BCRYPT_COST", 10),
        LogLevel:     envStr("LOG_LEVEL", "info"),
        LogJSON:      envBool("LOG_JSON", false),
    }
}

func amqpURL() string {
    if v := os.Getenv("RABBITMQ_URL"); v != "" {
        return v
    }
    return os.Getenv("AMQP_URL")
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
    s := must(key)
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}
