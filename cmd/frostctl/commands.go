package main

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/urfave/cli.v1"

	"github.com/f3rmion/frostkit/session"
)

// keyFile is what dealer writes. It holds every secret share, so it
// belongs to whoever distributes them.
type keyFile struct {
	Ciphersuite string                  `json:"ciphersuite"`
	Keys        *session.KeyGeneration `json:"keys"`
}

func (k *keyFile) engine() (session.Engine, error) {
	return session.NewEngine(k.Ciphersuite)
}

func readKeyFile(path string) (*keyFile, error) {
	if path == "" {
		return nil, errors.New("missing --keys")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading key file")
	}
	var k keyFile
	if err := json.Unmarshal(data, &k); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	if k.Keys == nil || k.Keys.PublicKeyPackage == nil {
		return nil, errors.Errorf("%s holds no keys", path)
	}
	return &k, nil
}

func writeJSON(c *cli.Context, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, string(out))
	return err
}

func dealer(c *cli.Context) error {
	cfg := &session.Configuration{}
	if path := c.String("config"); path != "" {
		loaded, err := session.LoadConfiguration(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if c.IsSet("min-signers") {
		cfg.MinSigners = uint16(c.Uint("min-signers"))
	}
	if c.IsSet("max-signers") {
		cfg.MaxSigners = uint16(c.Uint("max-signers"))
	}
	if c.IsSet("ciphersuite") {
		cfg.Ciphersuite = c.String("ciphersuite")
	}

	e, err := session.NewEngine(cfg.Ciphersuite)
	if err != nil {
		return err
	}
	keys, err := session.GenerateKeys(e, rand.Reader, cfg)
	if err != nil {
		return err
	}
	if cfg.Ciphersuite == "" {
		cfg.Ciphersuite = session.DefaultCiphersuite
	}
	out := &keyFile{Ciphersuite: cfg.Ciphersuite, Keys: keys}

	path := c.String("out")
	if path == "" {
		return writeJSON(c, out)
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.Wrap(err, "writing key file")
	}
	log.Infow("key file written", "path", path, "participants", len(keys.SecretShares))
	return nil
}

// participant returns the identifier of participant number n.
func participant(e session.Engine, keys *session.KeyGeneration, n uint64) (session.Identifier, error) {
	id, err := session.IdentifierFromUint(e, n)
	if err != nil {
		return id, err
	}
	if _, ok := keys.SecretShares[id]; !ok {
		return id, errors.Errorf("no participant %d", n)
	}
	return id, nil
}

func keyPackage(c *cli.Context) error {
	k, err := readKeyFile(c.String("keys"))
	if err != nil {
		return err
	}
	e, err := k.engine()
	if err != nil {
		return err
	}
	id, err := participant(e, k.Keys, uint64(c.Uint("index")))
	if err != nil {
		return err
	}
	kp, err := session.VerifyAndGetKeyPackage(e, k.Keys.SecretShares[id])
	if err != nil {
		return err
	}
	return writeJSON(c, kp)
}

func parseSigners(s string) ([]uint64, error) {
	var out []uint64
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		n, err := strconv.ParseUint(field, 10, 16)
		if err != nil {
			return nil, errors.Wrapf(err, "signer %q", field)
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, errors.New("missing --signers")
	}
	return out, nil
}

func sign(c *cli.Context) error {
	k, err := readKeyFile(c.String("keys"))
	if err != nil {
		return err
	}
	e, err := k.engine()
	if err != nil {
		return err
	}
	signers, err := parseSigners(c.String("signers"))
	if err != nil {
		return err
	}

	kps := make([]*session.KeyPackage, 0, len(signers))
	for _, n := range signers {
		id, err := participant(e, k.Keys, n)
		if err != nil {
			return err
		}
		kp, err := session.VerifyAndGetKeyPackage(e, k.Keys.SecretShares[id])
		if err != nil {
			return err
		}
		kps = append(kps, kp)
	}

	message := []byte(c.String("message"))
	sig, err := session.QuickSign(e, rand.Reader, kps, k.Keys.PublicKeyPackage, message)
	if err != nil {
		return err
	}
	log.Debugw("ceremony complete", "signers", len(kps))
	_, err = fmt.Fprintln(c.App.Writer, hex.EncodeToString(sig.Data))
	return err
}

func verify(c *cli.Context) error {
	k, err := readKeyFile(c.String("keys"))
	if err != nil {
		return err
	}
	e, err := k.engine()
	if err != nil {
		return err
	}
	raw, err := hex.DecodeString(c.String("signature"))
	if err != nil {
		return errors.Wrap(err, "signature is not hex")
	}
	ok, err := session.Verify(e, k.Keys.PublicKeyPackage, []byte(c.String("message")), &session.Signature{Data: raw})
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("signature does not verify")
	}
	_, err = fmt.Fprintln(c.App.Writer, "ok")
	return err
}
