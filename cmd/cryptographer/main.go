package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	cryptographer "github.com/cryptographer/cryptographer-go"
	"github.com/cryptographer/cryptographer-go/internal/crypto"
)

// Environment variables read by the command.
const (
	envBound              = "CRYPTOGRAPHER_BOUND"
	envRounds             = "CRYPTOGRAPHER_ROUNDS"
	envLogLevel           = "CRYPTOGRAPHER_LOG_LEVEL"
	envTimeout            = "CRYPTOGRAPHER_TIMEOUT"
	envPasswordIterations = "CRYPTOGRAPHER_PASSWORD_ITERATIONS"
)

const defaultTimeout = 60 * time.Second

const usage = "usage: cryptographer <keygen|public|encrypt|decrypt|hash-password|check-password|stream-encrypt|stream-decrypt>"

// exitFunc is os.Exit, replaced in tests.
var exitFunc = os.Exit

// Config holds the command's I/O and environment.
type Config struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Getenv looks up environment variables. Nil means no environment.
	Getenv func(string) string
	// EnvFile is an optional dotenv file. Variables already set in the
	// environment take precedence over it.
	EnvFile string

	fileEnv map[string]string
}

// DefaultConfig returns a Config wired to the process.
func DefaultConfig() *Config {
	return &Config{
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Getenv:  os.Getenv,
		EnvFile: ".env",
	}
}

func (c *Config) env(key string) string {
	if c.Getenv != nil {
		if v := c.Getenv(key); v != "" {
			return v
		}
	}
	return c.fileEnv[key]
}

func (c *Config) loadEnvFile() error {
	if c.EnvFile == "" {
		return nil
	}
	values, err := godotenv.Read(c.EnvFile)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", c.EnvFile, err)
	}
	c.fileEnv = values
	return nil
}

func (c *Config) logger() (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(c.stderr())
	logger.SetLevel(logrus.WarnLevel)

	if v := c.env(envLogLevel); v != "" {
		level, err := logrus.ParseLevel(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", envLogLevel, err)
		}
		logger.SetLevel(level)
	}
	return logger, nil
}

func (c *Config) stderr() io.Writer {
	if c.Stderr == nil {
		return io.Discard
	}
	return c.Stderr
}

func (c *Config) keyOptions(logger logrus.FieldLogger) ([]cryptographer.Option, error) {
	opts := []cryptographer.Option{cryptographer.WithLogger(logger)}

	if v := c.env(envBound); v != "" {
		bound, ok := new(big.Int).SetString(v, 10)
		if !ok {
			return nil, fmt.Errorf("%s: invalid integer %q", envBound, v)
		}
		opts = append(opts, cryptographer.WithBound(bound))
	}
	if v := c.env(envRounds); v != "" {
		rounds, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", envRounds, err)
		}
		opts = append(opts, cryptographer.WithPrimalityRounds(rounds))
	}
	return opts, nil
}

func (c *Config) timeout() (time.Duration, error) {
	v := c.env(envTimeout)
	if v == "" {
		return defaultTimeout, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", envTimeout, err)
	}
	return d, nil
}

func run(args []string, cfg *Config) error {
	if len(args) < 2 {
		return errors.New(usage)
	}
	if err := cfg.loadEnvFile(); err != nil {
		return err
	}

	logger, err := cfg.logger()
	if err != nil {
		return err
	}
	timeout, err := cfg.timeout()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	switch args[1] {
	case "keygen":
		return runKeygen(ctx, cfg, logger)
	case "public":
		return runPublic(cfg)
	case "encrypt":
		return runEncrypt(cfg)
	case "decrypt":
		return runDecrypt(cfg)
	case "hash-password":
		return runHashPassword(cfg)
	case "check-password":
		return runCheckPassword(cfg)
	case "stream-encrypt":
		return runStreamEncrypt(cfg)
	case "stream-decrypt":
		return runStreamDecrypt(cfg)
	default:
		return fmt.Errorf("unknown command: %s\n%s", args[1], usage)
	}
}

// KeyRequest carries an exported key and a payload.
type KeyRequest struct {
	Key        *cryptographer.ExportedKey `json:"key"`
	Plaintext  string                     `json:"plaintext,omitempty"`
	Ciphertext string                     `json:"ciphertext,omitempty"`
}

// PasswordRequest is the input of hash-password and check-password.
type PasswordRequest struct {
	Password   string                      `json:"password"`
	Iterations int                         `json:"iterations,omitempty"`
	SaltLength int                         `json:"saltLength,omitempty"`
	Hash       *cryptographer.PasswordHash `json:"hash,omitempty"`
}

// StreamRequest is the input of stream-encrypt and stream-decrypt. Key and
// Ciphertext are hex.
type StreamRequest struct {
	Key        string `json:"key,omitempty"`
	Plaintext  string `json:"plaintext,omitempty"`
	Ciphertext string `json:"ciphertext,omitempty"`
}

// StreamOutput is the output of stream-encrypt.
type StreamOutput struct {
	Key        string `json:"key"`
	Ciphertext string `json:"ciphertext"`
}

func runKeygen(ctx context.Context, cfg *Config, logger *logrus.Logger) error {
	opts, err := cfg.keyOptions(logger)
	if err != nil {
		return err
	}

	start := time.Now()
	key, err := cryptographer.GenerateKey(ctx, opts...)
	if err != nil {
		return fmt.Errorf("generate key: %w", err)
	}
	logger.WithField("elapsed", time.Since(start)).Info("key generated")

	return writeJSON(cfg, key.Export())
}

func runPublic(cfg *Config) error {
	var exported cryptographer.ExportedKey
	if err := readJSON(cfg, &exported); err != nil {
		return err
	}

	key, err := cryptographer.ImportKey(&exported)
	if err != nil {
		return fmt.Errorf("import key: %w", err)
	}
	half, err := key.PublicHalf()
	if err != nil {
		return err
	}
	public, err := cryptographer.NewPublicKey(half)
	if err != nil {
		return err
	}

	return writeJSON(cfg, public.Export())
}

func runEncrypt(cfg *Config) error {
	var req KeyRequest
	if err := readJSON(cfg, &req); err != nil {
		return err
	}
	key, err := cryptographer.ImportKey(req.Key)
	if err != nil {
		return fmt.Errorf("import key: %w", err)
	}

	ciphertext, err := key.EncryptString(req.Plaintext)
	if err != nil {
		return fmt.Errorf("encrypt: %w", err)
	}

	return writeJSON(cfg, map[string]string{"ciphertext": crypto.ToBase64URL(ciphertext)})
}

func runDecrypt(cfg *Config) error {
	var req KeyRequest
	if err := readJSON(cfg, &req); err != nil {
		return err
	}
	key, err := cryptographer.ImportKey(req.Key)
	if err != nil {
		return fmt.Errorf("import key: %w", err)
	}

	ciphertext, err := crypto.DecodeBase64(req.Ciphertext)
	if err != nil {
		return fmt.Errorf("decode ciphertext: %w", err)
	}
	plaintext, err := key.Decrypt(ciphertext)
	if err != nil {
		return fmt.Errorf("decrypt: %w", err)
	}

	return writeJSON(cfg, map[string]string{"plaintext": string(plaintext)})
}

func runHashPassword(cfg *Config) error {
	var req PasswordRequest
	if err := readJSON(cfg, &req); err != nil {
		return err
	}

	var opts []cryptographer.PasswordOption
	iterations := req.Iterations
	if iterations == 0 {
		if v := cfg.env(envPasswordIterations); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", envPasswordIterations, err)
			}
			iterations = n
		}
	}
	if iterations != 0 {
		opts = append(opts, cryptographer.WithIterations(iterations))
	}
	if req.SaltLength != 0 {
		opts = append(opts, cryptographer.WithSaltLength(req.SaltLength))
	}

	hash, err := cryptographer.HashPasswordString(req.Password, opts...)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return writeJSON(cfg, hash)
}

func runCheckPassword(cfg *Config) error {
	var req PasswordRequest
	if err := readJSON(cfg, &req); err != nil {
		return err
	}
	if req.Hash == nil {
		return errors.New("hash is required")
	}

	return writeJSON(cfg, map[string]bool{"match": req.Hash.Check([]byte(req.Password))})
}

func runStreamEncrypt(cfg *Config) error {
	var req StreamRequest
	if err := readJSON(cfg, &req); err != nil {
		return err
	}

	var key *cryptographer.StreamKey
	if req.Key == "" {
		var err error
		key, err = cryptographer.GenerateStreamKey(max(cryptographer.DefaultStreamKeyLength, len(req.Plaintext)))
		if err != nil {
			return err
		}
	} else {
		raw, err := hex.DecodeString(req.Key)
		if err != nil {
			return fmt.Errorf("decode key: %w", err)
		}
		if key, err = cryptographer.NewStreamKey(raw); err != nil {
			return err
		}
	}

	ciphertext, err := key.EncryptString(req.Plaintext)
	if err != nil {
		return fmt.Errorf("encrypt: %w", err)
	}

	return writeJSON(cfg, StreamOutput{
		Key:        hex.EncodeToString(key.Bytes()),
		Ciphertext: ciphertext,
	})
}

func runStreamDecrypt(cfg *Config) error {
	var req StreamRequest
	if err := readJSON(cfg, &req); err != nil {
		return err
	}

	raw, err := hex.DecodeString(req.Key)
	if err != nil {
		return fmt.Errorf("decode key: %w", err)
	}
	key, err := cryptographer.NewStreamKey(raw)
	if err != nil {
		return err
	}

	plaintext, err := key.Decrypt(req.Ciphertext)
	if err != nil {
		return fmt.Errorf("decrypt: %w", err)
	}

	return writeJSON(cfg, map[string]string{"plaintext": string(plaintext)})
}

func readJSON(cfg *Config, v any) error {
	if cfg.Stdin == nil {
		return errors.New("read stdin: no input")
	}
	data, err := io.ReadAll(cfg.Stdin)
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse input: %w", err)
	}
	return nil
}

func writeJSON(cfg *Config, v any) error {
	if err := json.NewEncoder(cfg.Stdout).Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	exitFunc(1)
}
