package options

import (
	"errors"

	"github.com/Ronniet1977/CamperShowBackup/internal/show"
	"github.com/Ronniet1977/CamperShowBackup/pkg/app"
	"github.com/Ronniet1977/CamperShowBackup/pkg/log"
	"github.com/Ronniet1977/CamperShowBackup/pkg/options"
	"github.com/spf13/pflag"
)

// ServerOptions is the full flag surface of the campershow server.
type ServerOptions struct {
	StoreOptions *options.StoreOptions `json:"store" mapstructure:"store"`
	S3Options    *options.S3Options    `json:"s3" mapstructure:"s3"`
	MqttOptions  *options.MqttOptions  `json:"mqtt" mapstructure:"mqtt"`
	HttpOptions  *options.HttpOptions  `json:"http" mapstructure:"http"`
	Log          *log.Options          `json:"log" mapstructure:"log"`
}

var _ app.CliOptions = (*ServerOptions)(nil)

func NewServerOptions() *ServerOptions {
	return &ServerOptions{
		StoreOptions: options.NewStoreOptions(),
		S3Options:    options.NewS3Options(),
		MqttOptions:  options.NewMqttOptions(),
		HttpOptions:  options.NewHttpOptions(),
		Log:          log.NewOptions(),
	}
}

func (o *ServerOptions) AddFlags(fs *pflag.FlagSet) {
	o.StoreOptions.AddFlags(fs)
	o.S3Options.AddFlags(fs)
	o.MqttOptions.AddFlags(fs)
	o.HttpOptions.AddFlags(fs)
	o.Log.AddFlags(fs)
}

func (o *ServerOptions) Complete() error {
	return nil
}

func (o *ServerOptions) Validate() error {
	var errs []error
	errs = append(errs, o.StoreOptions.Validate()...)
	errs = append(errs, o.S3Options.Validate()...)
	errs = append(errs, o.MqttOptions.Validate()...)
	errs = append(errs, o.HttpOptions.Validate()...)
	errs = append(errs, o.Log.Validate()...)
	return errors.Join(errs...)
}

func (o *ServerOptions) Config() (*show.Config, error) {
	return &show.Config{
		StoreOptions: o.StoreOptions,
		S3Options:    o.S3Options,
		MqttOptions:  o.MqttOptions,
		HttpOptions:  o.HttpOptions,
	}, nil
}
