package config

// EnvPrefix namespaces every environment variable the app reads.
const EnvPrefix = "POULTRYGEAR"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "POULTRYGEAR_DB_DSN"
	EnvDBHost = "POULTRYGEAR_DB_HOST"
	EnvDBUser = "POULTRYGEAR_DB_USER"
	EnvDBName = "POULTRYGEAR_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
