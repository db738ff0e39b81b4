package config // package config loads application configuration from environment variables

import (
    "log" // log is used to report configuration errors and halt execution
    "os"  // os provides access to environment variables
)

// Deployment modes. In jwt mode the service issues signed access tokens
// plus rotating refresh tokens; in session mode one opaque store-backed
// token is the sole bearer credential.
const (
    ModeJWT     = "jwt"
    ModeSession = "session"
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable. Secrets and identifiers are strings,
// durations and costs are ints in the unit named by the variable.
type Config struct {
    Env               string // application environment (dev/test/prod)
    Port              string // HTTP port to listen on
    DBUser            string // database username
    DBPass            string // database password (optional)
    DBHost            string // database host address
    DBPort            string // database port number
    DBName            string // database name
    AuthMode          string // jwt | session
    JWTSecret         string // secret used to sign access tokens
    JWTIssuer         string // iss claim, checked on verification
    JWTAudience       string // aud claim, checked on verification
    AccessTTLMin      int    // access token time-to-live in minutes
    RefreshTTLDays    int    // refresh token time-to-live in days
    EphemeralTTLHours int    // verify/reset token time-to-live in hours
    SessionTTLHours   int    // session token time-to-live in hours
    BcryptCost        int    // bcrypt cost for password hashing
}

// Load reads configuration from environment variables. Required
// variables are enforced by must() and missing values cause the program
// to exit; the token parameters fall back to the documented defaults.
func Load() Config {
    return Config{
        Env:               must("APP_ENV"),
        Port:              must("APP_PORT"),
        DBUser:            must("DB_USER"),
        DBPass:            os.Getenv("DB_PASS"), // empty allowed
        DBHost:            must("DB_HOST"),
        DBPort:            must("DB_PORT"),
        DBName:            must("DB_NAME"),
        AuthMode:          envStr("AUTH_MODE", ModeJWT),
        JWTSecret:         must("JWT_SECRET"),
        JWTIssuer:         envStr("JWT_ISSUER", "auth-service"),
        JWTAudience:       envStr("JWT_AUDIENCE", "admin-dashboard"),
        AccessTTLMin:      envInt("ACCESS_TOKEN_TTL_MIN", 24*60),
        RefreshTTLDays:    envInt("REFRESH_TOKEN_TTL_DAYS", 7),
        EphemeralTTLHours: envInt("EPHEMERAL_TOKEN_TTL_HOURS", 24),
        SessionTTLHours:   envInt("SESSION_TOKEN_TTL_HOURS", 7*24),
        BcryptCost:        envInt("BCRYPT_COST", 12),
    }
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and
// exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}
