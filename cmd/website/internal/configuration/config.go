package configuration

import "github.com/adampresley/configinator"

type Config struct {
	AdminCookieSecret      string `flag:"admincookiesecret" env:"ADMIN_COOKIE_SECRET" default:"admin-password" description:"Secret for encoding admin session cookies"`
	AwsEndpointUrl         string `flag:"awsep" env:"AWS_ENDPOINT_URL" default:"http://localhost:4566" description:"AWS endpoint URL"`
	AwsRegion              string `flag:"awsregion" env:"AWS_REGION" default:"us-central-1" description:"AWS region"`
	AwsAccessKeyId         string `flag:"awsaccesskeyid" env:"AWS_ACCESS_KEY_ID" default:"" description:"AWS access key ID"`
	AwsSecretAccessKey     string `flag:"awssecretaccesskey" env:"AWS_SECRET_ACCESS_KEY" default:"" description:"AWS secret access key"`
	AwsBucket              string `flag:"awsbucket" env:"AWS_BUCKET" default:"studio-site" description:"S3 bucket"`
	BcryptCost             int    `flag:"bcryptcost" env:"BCRYPT_COST" default:"12" description:"Cost used when hashing staff passwords"`
	CookieSecret           string `flag:"cookiesecret" env:"COOKIE_SECRET" default:"password" description:"Secret for encoding client session cookies"`
	DownloadBaseURL        string `flag:"dlb" env:"DOWNLOAD_BASE_URL" default:"http://localhost:8081" description:"Base URL for downloading images"`
	DownloadExpirationDays int    `flag:"dle" env:"DOWNLOAD_EXPIRATION_DAYS" default:"30" description:"Number of days before images expire in the download directory"`
	DSN                    string `flag:"dsn" env:"DSN" default:"file:./data/studiosite.db" description:"Data source name"`
	EmailApiKey            string `flag:"emailapikey" env:"EMAIL_API_KEY" default:"" description:"API key for sending emails"`
	EmailFromName          string `flag:"emailfromname" env:"EMAIL_FROM_NAME" default:"Studio" description:"Name outgoing email is sent from"`
	EmailFromAddress       string `flag:"emailfrom" env:"EMAIL_FROM_ADDRESS" default:"noreply@example.com" description:"Address outgoing email is sent from"`
	Host                   string `flag:"host" env:"HOST" default:"localhost:8081" description:"The address and port to bind the HTTP server to"`
	LogLevel               string `flag:"loglevel" env:"LOG_LEVEL" default:"debug" description:"The log level to use. Valid values are 'debug', 'info', 'warn', and 'error'"`
	MaxCacheWorkers        int    `flag:"mcc" env:"MAX_CACHE_WORKERS" default:"20" description:"Maximum number of concurrent cache workers"`
	MaxUploadMB            int    `flag:"maxupload" env:"MAX_UPLOAD_MB" default:"64" description:"Largest upload accepted by the admin panel, in megabytes"`
	MediaBaseURL           string `flag:"mediabaseurl" env:"MEDIA_BASE_URL" default:"http://localhost:8081/media" description:"Public URL objects are served from when using the memory storage driver"`
	StorageDriver          string `flag:"storage" env:"STORAGE_DRIVER" default:"s3" description:"Where photos and assets are stored. Valid values are 's3' and 'memory'"`
}

func LoadConfig() Config {
	config := Config{}
	configinator.Behold(&config)
	return config
}
