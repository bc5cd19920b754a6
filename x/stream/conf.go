package stream

import (
	"github.com/iov-one/flow"
	"github.com/iov-one/flow/codec"
	"github.com/iov-one/flow/errors"
	"github.com/iov-one/flow/gconf"
)

const (
	confName = "stream"

	// DefaultMaxTicks is used when no configuration was provided.
	DefaultMaxTicks = 1 << 20
)

// Configuration holds the global stream settings.
type Configuration struct {
	Metadata *flow.Metadata `json:"metadata"`
	// MaxTicks limits the number of ticks in a stream schedule.
	MaxTicks int64 `json:"max_ticks"`
}

var _ gconf.Configuration = (*Configuration)(nil)

func (c *Configuration) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", c.Metadata.Validate())
	if c.MaxTicks <= 0 {
		errs = errors.Append(errs, errors.Field("MaxTicks", errors.ErrInput, "must be positive"))
	}
	return errs
}

func (c *Configuration) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.Message(1, c.Metadata)
	e.Int64(2, c.MaxTicks)
	return e.Result()
}

func (c *Configuration) Unmarshal(raw []byte) error {
	*c = Configuration{}
	return codec.Decode(raw, func(f codec.Field) (err error) {
		switch f.Num {
		case 1:
			c.Metadata = &flow.Metadata{}
			err = f.Message(c.Metadata)
		case 2:
			c.MaxTicks, err = f.Int64()
		}
		return err
	})
}

// loadConf returns the stored configuration or the defaults.
func loadConf(db flow.ReadOnlyKVStore) (*Configuration, error) {
	var conf Configuration
	switch err := gconf.Load(db, confName, &conf); {
	case err == nil:
		return &conf, nil
	case errors.ErrNotFound.Is(err):
		return &Configuration{
			Metadata: &flow.Metadata{Schema: currentSchema},
			MaxTicks: DefaultMaxTicks,
		}, nil
	default:
		return nil, errors.Wrap(err, "load configuration")
	}
}
