package storage

// MinIOConfig holds the object store connection. An empty Endpoint means
// no object store is configured.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

// Enabled reports whether an endpoint is set.
func (c *MinIOConfig) Enabled() bool {
	return c != nil && c.Endpoint != ""
}
