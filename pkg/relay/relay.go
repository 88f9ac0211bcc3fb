package relay

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/savioxavier/termlink"

	"github.com/integrail/aibarnes/pkg/llm"
	"github.com/integrail/aibarnes/pkg/relay/dto"
)

const (
	TimeStampFormat = "2006-01-02 15:04:05.000000"
	fileTimeFormat  = "2006-01-02_15-04-05.000000"
	filePrefix      = "aireturn-"

	ConfigureHint = "Run 'aibarnes bot configure --api-key YOUR_KEY' to set up your API key."
)

var ErrNotConfigured = errors.New("no Claude API key found, run 'aibarnes bot configure --api-key YOUR_KEY' first")

// ServiceError is returned when the text-generation service fails for any reason.
// No answer file is written in that case.
type ServiceError struct {
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("issues running query: %v", e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

func (e *ServiceError) Cause() error { return e.Err }

type SecretSource interface {
	Secret() (string, bool, error)
}

type ClientFactory func(settings llm.Settings, credential string) (llm.Client, error)

// DefaultFactory builds clients with llm.New.
func DefaultFactory(log *slog.Logger) ClientFactory {
	return func(settings llm.Settings, credential string) (llm.Client, error) {
		return llm.New(log, settings, credential)
	}
}

type Reporter interface {
	Report(msg string)
}

type nopReporter struct{}

func (nopReporter) Report(string) {}

type Option func(r *Relay)

func WithOutputDir(dir string) Option {
	return func(r *Relay) {
		if dir != "" {
			r.outDir = dir
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Relay) {
		r.now = now
	}
}

func WithSettings(settings llm.Settings) Option {
	return func(r *Relay) {
		r.settings = settings
	}
}

func WithReporter(reporter Reporter) Option {
	return func(r *Relay) {
		r.reporter = reporter
	}
}

type Relay struct {
	log      *slog.Logger
	client   llm.Client
	settings llm.Settings
	outDir   string
	now      func() time.Time
	reporter Reporter
}

// New resolves the credential and builds the service client. It fails with
// ErrNotConfigured before any client is created when no credential is available.
func New(log *slog.Logger, secrets SecretSource, factory ClientFactory, opts ...Option) (*Relay, error) {
	r := &Relay{
		log:      log,
		outDir:   ".",
		now:      time.Now,
		reporter: nopReporter{},
	}
	for _, opt := range opts {
		opt(r)
	}
	r.settings = r.settings.WithDefaults()

	secret, ok, err := secrets.Secret()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotConfigured
	}

	client, err := factory(r.settings, secret)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to init %s client", r.settings.Provider)
	}
	r.client = client
	return r, nil
}

// Relay sends prompt verbatim and saves the answer to a new timestamped file.
// Service failures are returned as *ServiceError together with a nil response.
func (r *Relay) Relay(ctx context.Context, prompt string) (*dto.Response, error) {
	fileName := filepath.Join(r.outDir, fmt.Sprintf("%s%s.txt", filePrefix, r.now().Format(fileTimeFormat)))

	res, err := r.client.Generate(ctx, llm.GenerateRequest{
		Prompt:    prompt,
		Model:     r.settings.Model,
		MaxTokens: r.settings.MaxTokens,
	})
	if err == nil && res == nil {
		err = errors.Errorf("%s returned no response", r.settings.Provider)
	}
	if err != nil {
		r.log.Error("issues running query", "provider", r.settings.Provider, "err", err)
		return nil, &ServiceError{Err: err}
	}

	if err := os.WriteFile(fileName, []byte(res.Response), 0o644); err != nil {
		return nil, errors.Wrapf(err, "failed to save prompt response to %s", fileName)
	}
	r.log.Debug("prompt response saved", "file", fileName, "bytes", len(res.Response))
	r.reporter.Report("prompt response saved to " + fileLink(fileName))

	return &dto.Response{
		TimeStamp:    r.now().Format(TimeStampFormat),
		FileCreated:  true,
		FileName:     fileName,
		PromptAnswer: res.Response,
		Message:      fmt.Sprintf("File created with the prompt response. filename is %s", fileName),
		ReturnCode:   dto.StatusOK,
	}, nil
}

func fileLink(fileName string) string {
	abs, err := filepath.Abs(fileName)
	if err != nil {
		abs = fileName
	}
	return termlink.ColorLink(filepath.Base(fileName), fmt.Sprintf("file://%s", abs), "italic green")
}
