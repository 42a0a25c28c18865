package options

import (
	"fmt"

	"dass/pkg/acquisition"
)

func Validate(o *Options) []error {
	var errs []error
	if err := o.BaseOptions.ValidateAndApply(); err != nil {
		errs = append(errs, err)
	}
	if o.Channels < acquisition.MinChannelCount || o.Channels > acquisition.MaxChannelCount {
		errs = append(errs, fmt.Errorf("channels must be between %d and %d, got %d", acquisition.MinChannelCount, acquisition.MaxChannelCount, o.Channels))
	}
	if len(o.LogDir) == 0 {
		errs = append(errs, fmt.Errorf("log-dir must not be empty"))
	}

	return errs
}
