package config

const (
	// EnvPrefix namespaces every environment variable read by Load.
	EnvPrefix = "FADE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "FADE_DB_DSN"
	EnvDBHost = "FADE_DB_HOST"
	EnvDBUser = "FADE_DB_USER"
	EnvDBName = "FADE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
