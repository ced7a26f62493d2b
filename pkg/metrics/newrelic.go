package metrics

type NewRelicConfig struct {
	Enabled    bool   `yaml:"enabled" mapstructure:"enabled" default:"false"`
	AppName    string `yaml:"appname" mapstructure:"appname" default:"finder"`
	LicenseKey string `yaml:"licensekey" mapstructure:"licensekey" default:""`
}
