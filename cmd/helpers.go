package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
	"invoicer/internal/invoice"
	"invoicer/internal/invoice/migrations"
	"invoicer/internal/store"
)

// Output formats accepted by --format
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// documentDefaults returns the settings for new documents and for fields a
// loaded document lacks.
func documentDefaults() invoice.Defaults {
	d := invoice.DefaultSettings()
	if appConfig == nil {
		return d
	}

	d.Currency = appConfig.DefaultCurrency
	d.Locale = appConfig.DefaultLocale
	d.Layout = appConfig.DefaultLayout
	d.Style = appConfig.DefaultStyle
	return d
}

// documentPath returns the FILE argument, or the configured state file.
func documentPath(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	if appConfig != nil {
		return appConfig.StateFile
	}
	return "invoice.json"
}

func openStore(args []string) *store.FileStore {
	return store.NewFileStore(documentPath(args), documentDefaults())
}

// commandContext creates a context that is canceled on interrupt
func commandContext(log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// confirm asks a yes/no question on out and reads the answer from in.
// Anything but y or yes is a no.
func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N] ", question)

	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// writeStructured encodes v as JSON or YAML to w
func writeStructured(w io.Writer, v any, format string) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q (use %s or %s)", format, formatJSON, formatYAML)
	}
}

// checkFormat validates a --format value
func checkFormat(format string, allowed ...string) error {
	for _, f := range allowed {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("unsupported output format %q (use one of: %s)", format, strings.Join(allowed, ", "))
}

// handleLoadError provides user-friendly error messages for document
// loading failures
func handleLoadError(err error, log zerolog.Logger) error {
	log.Error().Err(err).Msg("Document could not be loaded")

	var missing *migrations.MissingMigratorError
	switch {
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("operation was canceled")
	case errors.Is(err, store.ErrDocumentNotFound):
		return fmt.Errorf("document not found. Create one with 'invoicer new' or pass a FILE argument: %w", err)
	case errors.Is(err, store.ErrMalformedJSON):
		return fmt.Errorf("the file is not valid JSON. Check it for truncation or manual edits: %w", err)
	case errors.Is(err, store.ErrNotAnObject):
		return fmt.Errorf("the file does not contain an invoice document (expected a JSON object)")
	case errors.Is(err, store.ErrDocumentTooLarge):
		return fmt.Errorf("the file is too large (maximum %d bytes)", store.MaxDocumentSizeBytes)
	case errors.As(err, &missing):
		return fmt.Errorf("this document uses schema v%d, which this release cannot upgrade. "+
			"The file was not changed: %w", missing.Version, err)
	case errors.Is(err, store.ErrMigrationFailed):
		return fmt.Errorf("the document could not be upgraded and was not changed: %w", err)
	default:
		return fmt.Errorf("failed to load document: %w", err)
	}
}
