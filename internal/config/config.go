package config

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	DatabaseURL string `env:"DATABASE_URL"`

	RevenueCat RevenueCat `envPrefix:"REVENUECAT_"`
	Apple      Apple      `envPrefix:"APPLE_"`
	Google     Google     `envPrefix:"GOOGLE_"`
}

type RevenueCat struct {
	// Static bearer secret configured in the RevenueCat dashboard; compared
	// verbatim against the Authorization header of incoming webhooks.
	WebhookAuth string `env:"WEBHOOK_AUTH"`
}

type Apple struct {
	SharedSecret     string `env:"SHARED_SECRET"`
	VerifyURL        string `env:"VERIFY_URL" envDefault:"https://buy.itunes.apple.com/verifyReceipt"`
	SandboxVerifyURL string `env:"SANDBOX_VERIFY_URL" envDefault:"https://sandbox.itunes.apple.com/verifyReceipt"`
}

type Google struct {
	// JSON blob with client_email, private_key and project_id, as downloaded
	// from the Google Cloud console.
	ServiceAccountJSON string `env:"SERVICE_ACCOUNT_JSON"`
	PackageName        string `env:"PACKAGE_NAME" envDefault:"com.gatofit.app"`
	TokenURL           string `env:"TOKEN_URL" envDefault:"https://oauth2.googleapis.com/token"`
	APIBaseURL         string `env:"API_BASE_URL" envDefault:"https://androidpublisher.googleapis.com"`
	PublisherScope     string `env:"PUBLISHER_SCOPE" envDefault:"https://www.googleapis.com/auth/androidpublisher"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

func (e Environment) IsProduction() bool {
	return e.Name == "production"
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}
