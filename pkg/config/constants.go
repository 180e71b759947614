package config

// EnvPrefix is the envconfig prefix shared by all settings.
const EnvPrefix = "cakery"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv  = "CAKERY_APP_ENV"
	EnvAppPort = "CAKERY_APP_PORT"
	EnvDBDSN   = "CAKERY_DB_DSN"
	EnvDBHost  = "CAKERY_DB_HOST"
	EnvDBUser  = "CAKERY_DB_USER"
	EnvDBName  = "CAKERY_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
