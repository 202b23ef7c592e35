package config

const (
	EnvPrefix = "DELIVERY"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "DELIVERY_DB_DSN"
	EnvDBHost = "DELIVERY_DB_HOST"
	EnvDBUser = "DELIVERY_DB_USER"
	EnvDBName = "DELIVERY_DB_NAME"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
