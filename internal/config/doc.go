/*
Package config loads baasclient settings from YAML files and BAAS_* environment
variables.

Sources are applied in order, later ones overriding earlier ones:

	cfg := config.NewDefault()                  // compiled-in defaults
	if err := cfg.LoadFromFile(path); err != nil { // YAML file
		return err
	}
	if err := cfg.LoadFromEnv(); err != nil {      // environment
		return err
	}
	if err := cfg.Validate(); err != nil {         // normalizes api.env_url
		return err
	}

File format:

	global:
	  log_level: INFO        # DEBUG, INFO, WARN, ERROR
	  log_format: text       # text or json
	  log_file: ""
	  log_max_size: 10MB     # rotate log_file at this size; empty disables
	  log_max_backups: 3     # rotated files kept as log_file.1 .. .N
	  log_compress: false
	api:
	  env_url: https://c1-na.example.app
	  client_key: <client key>
	  api_key: ""
	  session_token: ""
	  timeout: 30s
	  max_upload_size: 50MB
	metrics:
	  enabled: false
	  namespace: baasclient

Environment variables: BAAS_ENV_URL, BAAS_CLIENT_KEY, BAAS_API_KEY,
BAAS_SESSION_TOKEN, BAAS_TIMEOUT, BAAS_MAX_UPLOAD_SIZE, BAAS_LOG_LEVEL,
BAAS_LOG_FORMAT, BAAS_LOG_FILE, BAAS_METRICS_ENABLED.

Validate reports missing or malformed settings with the same structured
errors the API validators produce, naming the offending key. Files written by
SaveToFile are created with mode 0600 since they may hold keys.
*/
package config
