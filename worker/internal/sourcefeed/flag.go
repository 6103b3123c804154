package sourcefeed

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"time"
)

var ErrInvalidSourceConfig = errors.New("invalid source config")

// Duration accepts `"30s"` style strings as well as plain nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(data []byte) error {
	var nanoseconds int64
	if err := json.Unmarshal(data, &nanoseconds); err == nil {
		*d = Duration(nanoseconds)
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(str)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

type ConfigFlag []SourceConfig

func (c *ConfigFlag) Set(arg string) error {
	var config SourceConfig
	if err := json.Unmarshal([]byte(arg), &config); err != nil {
		return errors.Join(ErrInvalidSourceConfig, err)
	}
	if err := config.validate(); err != nil {
		return err
	}
	*c = append(*c, config)
	return nil
}

func (c *ConfigFlag) String() string {
	return fmt.Sprint(*c)
}

var _ flag.Value = (*ConfigFlag)(nil)
