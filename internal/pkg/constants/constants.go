package constants

import "time"

const (
	ViperSecretKey           = "auth.secret"
	ViperTokenTTLKey         = "auth.token_ttl"
	ViperHTTPAddrKey         = "http.addr"
	ViperRequestTimeoutKey   = "http.request_timeout"
	ViperCORSAllowOriginsKey = "http.cors_allow_origins"
	ViperPostgresDSNKey      = "postgres.dsn"
	ViperPostgresMaxConnKey  = "postgres.max_conns"
	ViperPostgresConnectKey  = "postgres.connect_timeout"
	ViperStoreDriverKey      = "store.driver"
	ViperStoreSeedFileKey    = "store.seed_file"
	ViperLogLevelKey         = "log.level"
	ViperLogDevelopmentKey   = "log.development"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

const (
	HeaderAuthorization = "Authorization"
	BearerPrefix        = "Bearer "
)

const (
	CtxKeyIdentity  = "identity"
	CtxKeyAuthError = "auth_error"
	CtxKeyRequestID = "request_id"
)

const (
	DefaultRequestTimeout = 15 * time.Second
	DefaultTokenTTL       = 7 * 24 * time.Hour
)
