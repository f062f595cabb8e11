package config

type R2Config struct {
	AccountID       string `env:"CLOUDFLARE_ACCOUNT_ID"`
	AccessKeyID     string `env:"CLOUDFLARE_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"CLOUDFLARE_SECRET_ACCESS_KEY"`
	BucketName      string `env:"CLOUDFLARE_BUCKET_NAME"`
	PublicURL       string `env:"CLOUDFLARE_PUBLIC_URL"`
	Region          string `env:"CLOUDFLARE_REGION" envDefault:"auto"`
}

// Enabled reports whether enough is set to talk to the bucket.
func (c R2Config) Enabled() bool {
	return c.AccountID != "" && c.AccessKeyID != "" && c.SecretAccessKey != "" && c.BucketName != ""
}
