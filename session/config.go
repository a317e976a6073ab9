package session

import (
	"encoding/hex"
	"slices"

	"github.com/BurntSushi/toml"
)

// Configuration holds the parameters of one key generation.
type Configuration struct {
	// MinSigners is the threshold t.
	MinSigners uint16 `json:"min_signers"`
	// MaxSigners is the group size n.
	MaxSigners uint16 `json:"max_signers"`
	// Secret is the engine encoding of the group secret. When empty the
	// dealer draws a random one.
	Secret []byte `json:"secret,omitempty"`
	// Ciphersuite names the engine, see [NewEngine].
	Ciphersuite string `json:"ciphersuite,omitempty"`
}

// Validate checks 2 <= MinSigners <= MaxSigners and that Ciphersuite,
// when set, is one of [Ciphersuites].
func (c *Configuration) Validate() error {
	if c.Ciphersuite != "" && !slices.Contains(Ciphersuites(), c.Ciphersuite) {
		return newError(StageConfig, UnknownError, nil).withReason("unknown ciphersuite %q", c.Ciphersuite)
	}
	if c.MinSigners < 2 {
		return newError(StageConfig, InvalidMinSigners, nil).withReason("min signers %d below 2", c.MinSigners)
	}
	if c.MaxSigners < 2 {
		return newError(StageConfig, InvalidMaxSigners, nil).withReason("max signers %d below 2", c.MaxSigners)
	}
	if c.MinSigners > c.MaxSigners {
		return newError(StageConfig, InvalidMinSigners, nil).
			withReason("min signers %d above max signers %d", c.MinSigners, c.MaxSigners)
	}
	return nil
}

// configFile is the on-disk TOML layout. The secret is hex so that the
// file stays printable.
type configFile struct {
	MinSigners  uint16 `toml:"min_signers"`
	MaxSigners  uint16 `toml:"max_signers"`
	Secret      string `toml:"secret"`
	Ciphersuite string `toml:"ciphersuite"`
}

// LoadConfiguration reads and validates a TOML configuration:
//
//	ciphersuite = "ed25519"
//	min_signers = 2
//	max_signers = 3
//	# secret = "<hex scalar>"
func LoadConfiguration(path string) (*Configuration, error) {
	var f configFile
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return nil, newError(StageConfig, DeserializationError, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, newError(StageConfig, DeserializationError, nil).withReason("unknown key %q", undecoded[0].String())
	}
	return f.configuration()
}

// ParseConfiguration is [LoadConfiguration] for in-memory TOML.
func ParseConfiguration(data string) (*Configuration, error) {
	var f configFile
	md, err := toml.Decode(data, &f)
	if err != nil {
		return nil, newError(StageConfig, DeserializationError, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, newError(StageConfig, DeserializationError, nil).withReason("unknown key %q", undecoded[0].String())
	}
	return f.configuration()
}

func (f *configFile) configuration() (*Configuration, error) {
	cfg := &Configuration{
		MinSigners:  f.MinSigners,
		MaxSigners:  f.MaxSigners,
		Ciphersuite: f.Ciphersuite,
	}
	if f.Secret != "" {
		secret, err := hex.DecodeString(f.Secret)
		if err != nil {
			// The hex error quotes the offending byte; keep it out.
			return nil, newError(StageConfig, DeserializationError, nil).withReason("secret is not valid hex")
		}
		cfg.Secret = secret
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
