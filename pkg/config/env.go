package config

// EnvPrefix is passed to envconfig; every field carries its full variable name in its tag.
const EnvPrefix = "SHOPFRONT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	DBDriverMongo    = "mongo"
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const defaultSQLiteDSN = "file:shopfront.db?cache=shared"

const (
	EnvDBDSN         = "SHOPFRONT_DB_DSN"
	EnvDBDriver      = "SHOPFRONT_DB_DRIVER"
	EnvDBHost        = "SHOPFRONT_DB_HOST"
	EnvDBUser        = "SHOPFRONT_DB_USER"
	EnvDBName        = "SHOPFRONT_DB_NAME"
	EnvMongoURI      = "SHOPFRONT_MONGO_URI"
	EnvMongoDatabase = "SHOPFRONT_MONGO_DATABASE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

const (
	EnvAppEnv    = "SHOPFRONT_APP_ENV"
	EnvPort      = "SHOPFRONT_APP_PORT"
	EnvRedisURL  = "SHOPFRONT_REDIS_URL"
	EnvJWTSecret = "SHOPFRONT_JWT_SECRET"
	EnvJWTIssuer = "SHOPFRONT_JWT_ISSUER"
	EnvUseSQLite = "SHOPFRONT_USE_SQLITE"
)
